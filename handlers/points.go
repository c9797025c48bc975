package handlers

import (
	"net/http"
	"time"

	"rewardtrack-backend/services"
	"rewardtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type PointsHandler struct {
	Ledger *services.LedgerService
}

func (h *PointsHandler) RecordPoints(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Points        int    `json:"points" binding:"required,gt=0"`
		EffectiveDate string `json:"effective_date" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effective_date must be YYYY-MM-DD"})
		return
	}

	entry, err := h.Ledger.RecordPoints(ownerID, memberID, req.Points, effectiveDate, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *PointsHandler) RedeemReward(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	redemption, err := h.Ledger.RedeemReward(ownerID, memberID, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, redemption)
}
