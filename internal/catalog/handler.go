package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// GetMenu godoc
// @Summary      Restaurant menu
// @Description  Returns the menu with modifier groups and prices.
// @Tags         catalog
// @Produce      json
// @Param        restaurantID  path      int  true  "Restaurant ID"
// @Success      200           {array}   ProductWithModifiers
// @Failure      400           {object}  gin.H
// @Failure      500           {object}  gin.H
// @Router       /restaurants/{restaurantID}/menu [get]
func (h *Handler) GetMenu(c *gin.Context) {
	restaurantID, err := strconv.Atoi(c.Param("restaurantID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid restaurant ID"})
		return
	}

	menu, err := h.repo.ListMenu(c.Request.Context(), restaurantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, menu)
}
