package handlers

import (
	"net/http"

	"rewardtrack-backend/services"
	"rewardtrack-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	Ledger *services.LedgerService
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	settings, err := h.Ledger.GetOrInitSettings(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req struct {
		PointsToReward int `json:"points_to_reward" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	settings, err := h.Ledger.UpdateSettings(ownerID, req.PointsToReward)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}
