package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"rewardtrack-backend/services"

	"github.com/gin-gonic/gin"
)

// ExportHandler reads through the ledger and history services only; it never
// touches the store directly and never writes.
type ExportHandler struct {
	Ledger  *services.LedgerService
	History *services.HistoryService
}

func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(header)
	w.WriteAll(rows)
	if err := w.Error(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *ExportHandler) ExportMembers(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	members, err := h.Ledger.ListMembers(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.Name,
			strconv.Itoa(m.TotalPoints),
			strconv.Itoa(m.RewardCount),
		})
	}
	writeCSV(c, "members.csv", []string{"Name", "Total Points", "Rewards Redeemed"}, rows)
}

func (h *ExportHandler) ExportPointTransactions(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	entries, err := h.History.ListAllPointTransactions(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.MemberName,
			strconv.Itoa(e.Points),
			e.EffectiveDate.Format("2006-01-02"),
			e.Notes,
		})
	}
	writeCSV(c, "points_log.csv", []string{"Member", "Points", "Date", "Notes"}, rows)
}

func (h *ExportHandler) ExportRewardRedemptions(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	entries, err := h.History.ListAllRewardRedemptions(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.MemberName,
			e.Description,
			strconv.Itoa(e.PointsSpent),
			e.RedeemedAt.Format("2006-01-02"),
		})
	}
	writeCSV(c, "reward_log.csv", []string{"Member", "Reward", "Points Spent", "Date"}, rows)
}
