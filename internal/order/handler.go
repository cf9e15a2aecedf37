package order

import (
	"errors"
	"net/http"
	"strconv"

	"foodshop/internal/auth"
	"foodshop/internal/catalog"
	"foodshop/internal/restaurant"
	"foodshop/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Checkout godoc
// @Summary      Submit a cart
// @Description  Prices the cart server-side and creates the order. Client
// @Description  prices are never read. Online payment returns a redirect URL.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        restaurantID  path      int              true  "Restaurant ID"
// @Param        request       body      CheckoutRequest  true  "Cart"
// @Success      201           {object}  CheckoutResponse
// @Failure      400           {object}  gin.H
// @Failure      402           {object}  gin.H
// @Failure      404           {object}  gin.H
// @Failure      409           {object}  gin.H
// @Failure      502           {object}  gin.H
// @Router       /restaurants/{restaurantID}/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	customerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	restaurantID, err := strconv.Atoi(c.Param("restaurantID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant id"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), restaurantID, customerID, req)
	if err != nil {
		h.writeCheckoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) writeCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, restaurant.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrCatalogMismatch),
		errors.Is(err, ErrInvalidPickupTime), errors.Is(err, ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrItemUnavailable), errors.Is(err, ErrRestaurantClosed), errors.Is(err, ErrPaymentMethodUnsupported):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown catalog item"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
	}
}

// ProcessorCallback godoc
// @Summary      Payment processor callback
// @Description  Signed confirmation or expiry event for an order payment or
// @Description  wallet top-up session. Safe to deliver more than once.
// @Tags         payments
// @Produce      json
// @Success      200  {object}  gin.H
// @Failure      400  {object}  gin.H
// @Failure      404  {object}  gin.H
// @Router       /payments/callback [get]
func (h *Handler) ProcessorCallback(c *gin.Context) {
	// ParseForm merges the query string with a form-encoded POST body, so
	// both redirect and server-to-server deliveries carry the signed params.
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback"})
		return
	}
	if err := h.service.HandleCallback(c.Request.Context(), c.Request.Form); err != nil {
		switch {
		case errors.Is(err, ErrUnknownReference):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown payment reference"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListMine godoc
// @Summary      Customer order history
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false "Page size"
// @Param        offset  query     int  false "Offset"
// @Success      200     {array}   Order
// @Failure      401     {object}  gin.H
// @Router       /orders [get]
func (h *Handler) ListMine(c *gin.Context) {
	customerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.service.ListForCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetMine godoc
// @Summary      One of the customer's orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      string  true  "Order public id"
// @Success      200      {object}  Order
// @Failure      401      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /orders/{orderID} [get]
func (h *Handler) GetMine(c *gin.Context) {
	customerID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	o, err := h.service.GetForCustomer(c.Request.Context(), customerID, c.Param("orderID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	c.JSON(http.StatusOK, o)
}

// ListForStaff godoc
// @Summary      Orders of the staff member's restaurant
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false "Filter by status"
// @Param        limit   query     int     false "Page size"
// @Param        offset  query     int     false "Offset"
// @Success      200     {array}   Order
// @Failure      401     {object}  gin.H
// @Router       /staff/orders [get]
func (h *Handler) ListForStaff(c *gin.Context) {
	restaurantID, ok := auth.GetStaffRestaurantID(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "No restaurant assignment"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.service.ListForRestaurant(c.Request.Context(), restaurantID, c.Query("status"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Advance godoc
// @Summary      Move an order one step forward
// @Tags         staff
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        orderID  path      int                   true  "Order ID"
// @Param        request  body      AdvanceStatusRequest  true  "Target status"
// @Success      200      {object}  Order
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /staff/orders/{orderID}/advance [post]
func (h *Handler) Advance(c *gin.Context) {
	restaurantID, orderID, ok := h.staffOrderKey(c)
	if !ok {
		return
	}

	var req AdvanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.service.AdvanceStatus(c.Request.Context(), restaurantID, orderID, req.Status)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// CancelOrder godoc
// @Summary      Cancel a non-terminal order
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  Order
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /staff/orders/{orderID}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	restaurantID, orderID, ok := h.staffOrderKey(c)
	if !ok {
		return
	}

	o, err := h.service.Cancel(c.Request.Context(), restaurantID, orderID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// CollectCash godoc
// @Summary      Record cash collection for an on-site order
// @Tags         staff
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      int  true  "Order ID"
// @Success      200      {object}  Order
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Router       /staff/orders/{orderID}/collect [post]
func (h *Handler) CollectCash(c *gin.Context) {
	restaurantID, orderID, ok := h.staffOrderKey(c)
	if !ok {
		return
	}

	o, err := h.service.MarkCashCollected(c.Request.Context(), restaurantID, orderID)
	if err != nil {
		h.writeTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) staffOrderKey(c *gin.Context) (restaurantID, orderID int, ok bool) {
	restaurantID, found := auth.GetStaffRestaurantID(c)
	if !found {
		c.JSON(http.StatusForbidden, gin.H{"error": "No restaurant assignment"})
		return 0, 0, false
	}
	orderID, err := strconv.Atoi(c.Param("orderID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, 0, false
	}
	return restaurantID, orderID, true
}

func (h *Handler) writeTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	}
}
