package handlers

import (
	"net/http"

	"rewardtrack-backend/services"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	History *services.HistoryService
}

func (h *HistoryHandler) ListPointTransactions(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	entries, err := h.History.ListPointTransactions(ownerID, memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": entries})
}

func (h *HistoryHandler) ListRewardRedemptions(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	memberID, ok := memberIDParam(c)
	if !ok {
		return
	}

	entries, err := h.History.ListRewardRedemptions(ownerID, memberID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"redemptions": entries})
}
