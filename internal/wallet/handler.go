package wallet

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"foodshop/internal/auth"
	"foodshop/internal/metrics"
	"foodshop/internal/notify"
	"foodshop/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo      Repository
	processor payment.Client
	publisher notify.Publisher
}

func NewHandler(db *sqlx.DB, processor payment.Client, publisher notify.Publisher) *Handler {
	return &Handler{
		repo:      NewRepository(db),
		processor: processor,
		publisher: publisher,
	}
}

// GetBalance godoc
// @Summary      Wallet balance
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        restaurantID  path      int  true  "Restaurant ID"
// @Success      200           {object}  Wallet
// @Failure      401           {object}  gin.H
// @Failure      500           {object}  gin.H
// @Router       /restaurants/{restaurantID}/wallet [get]
func (h *Handler) GetBalance(c *gin.Context) {
	customerID, restaurantID, ok := h.walletKey(c)
	if !ok {
		return
	}

	w, err := h.repo.GetOrCreate(c.Request.Context(), customerID, restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load wallet"})
		return
	}

	c.JSON(http.StatusOK, w)
}

// ListTransactions godoc
// @Summary      Wallet transactions
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        restaurantID  path      int  true  "Restaurant ID"
// @Param        limit         query     int  false "Page size"
// @Param        offset        query     int  false "Offset"
// @Success      200           {array}   Transaction
// @Failure      401           {object}  gin.H
// @Failure      500           {object}  gin.H
// @Router       /restaurants/{restaurantID}/wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	customerID, restaurantID, ok := h.walletKey(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.GetTransactions(c.Request.Context(), customerID, restaurantID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

// TopUp godoc
// @Summary      Start a wallet top-up
// @Description  Creates a processor payment session; the wallet is credited
// @Description  only after the processor confirms the payment.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        restaurantID  path      int           true  "Restaurant ID"
// @Param        request       body      TopUpRequest  true  "Top-up amount"
// @Success      200           {object}  TopUpResponse
// @Failure      400           {object}  gin.H
// @Failure      401           {object}  gin.H
// @Failure      502           {object}  gin.H
// @Router       /restaurants/{restaurantID}/wallet/topup [post]
func (h *Handler) TopUp(c *gin.Context) {
	customerID, restaurantID, ok := h.walletKey(c)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AmountCents <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
		return
	}

	session, err := h.processor.CreateSession(c.Request.Context(), payment.CreateSessionRequest{
		AmountCents: req.AmountCents,
		Description: fmt.Sprintf("wallet top-up for customer %d", customerID),
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment processor unavailable, try again"})
		return
	}

	if _, err := h.repo.CreateTopupIntent(c.Request.Context(), customerID, restaurantID, req.AmountCents, session.Reference); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create top-up"})
		return
	}

	c.JSON(http.StatusOK, TopUpResponse{
		Reference:   session.Reference,
		RedirectURL: session.RedirectURL,
	})
}

// AdminCredit godoc
// @Summary      Credit a wallet manually
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AdminCreditRequest  true  "Credit details"
// @Success      200      {object}  gin.H
// @Failure      400      {object}  gin.H
// @Failure      401      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/wallets/credit [post]
func (h *Handler) AdminCredit(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AdminCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	description := req.Description
	if description == "" {
		description = "manual credit"
	}

	newBalance, err := h.repo.Credit(c.Request.Context(), req.CustomerID, req.RestaurantID, req.AmountCents,
		TypeTopupAdmin, description, CreditOptions{ActorID: &actorID})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to credit wallet"})
		return
	}

	metrics.RecordWalletTopUp(TypeTopupAdmin)
	h.publisher.PublishWalletEvent(c.Request.Context(), notify.WalletEvent{
		Type:         notify.EventWalletChanged,
		CustomerID:   req.CustomerID,
		RestaurantID: req.RestaurantID,
		BalanceCents: newBalance,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":       "wallet credited",
		"balance_cents": newBalance,
	})
}

func (h *Handler) walletKey(c *gin.Context) (customerID, restaurantID int, ok bool) {
	customerID, authed := auth.GetUserID(c)
	if !authed {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, 0, false
	}

	restaurantID, err := strconv.Atoi(c.Param("restaurantID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return 0, 0, false
	}

	return customerID, restaurantID, true
}
