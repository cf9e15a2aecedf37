package restaurant

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodshop/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultPickupLeadMinutes = 15
	DefaultPickupStepMinutes = 15
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// List godoc
// @Summary      List restaurants
// @Tags         restaurants
// @Produce      json
// @Success      200  {array}   Restaurant
// @Failure      500  {object}  gin.H
// @Router       /restaurants [get]
func (h *Handler) List(c *gin.Context) {
	restaurants, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurants"})
		return
	}

	c.JSON(http.StatusOK, restaurants)
}

// GetHours godoc
// @Summary      Opening status
// @Description  Reports whether the restaurant is open right now and when it opens next.
// @Tags         restaurants
// @Produce      json
// @Param        restaurantID  path      int  true  "Restaurant ID"
// @Success      200           {object}  HoursResponse
// @Failure      400           {object}  gin.H
// @Failure      404           {object}  gin.H
// @Router       /restaurants/{restaurantID}/hours [get]
func (h *Handler) GetHours(c *gin.Context) {
	rest, ok := h.loadRestaurant(c)
	if !ok {
		return
	}

	week, err := rest.Schedule()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid schedule configuration"})
		return
	}

	now := time.Now()
	resp := HoursResponse{OpenNow: schedule.IsOpen(week, now)}
	if next, ok := schedule.NextOpening(week, now); ok {
		resp.NextOpening = &next
	}

	c.JSON(http.StatusOK, resp)
}

// GetPickupSlots godoc
// @Summary      Pickup slots
// @Description  Returns the valid pickup times for today.
// @Tags         restaurants
// @Produce      json
// @Param        restaurantID  path      int  true  "Restaurant ID"
// @Success      200           {object}  PickupSlotsResponse
// @Failure      400           {object}  gin.H
// @Failure      404           {object}  gin.H
// @Router       /restaurants/{restaurantID}/pickup-slots [get]
func (h *Handler) GetPickupSlots(c *gin.Context) {
	rest, ok := h.loadRestaurant(c)
	if !ok {
		return
	}

	week, err := rest.Schedule()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid schedule configuration"})
		return
	}

	slots := schedule.PickupSlots(week, time.Now(), DefaultPickupLeadMinutes, DefaultPickupStepMinutes)
	if slots == nil {
		slots = []time.Time{}
	}

	c.JSON(http.StatusOK, PickupSlotsResponse{Slots: slots})
}

func (h *Handler) loadRestaurant(c *gin.Context) (*Restaurant, bool) {
	restaurantID, err := strconv.Atoi(c.Param("restaurantID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return nil, false
	}

	rest, err := h.repo.GetByID(c.Request.Context(), restaurantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}

	return rest, true
}
