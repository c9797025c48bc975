package handlers

import (
	"io"

	"rewardtrack-backend/services"

	"github.com/gin-gonic/gin"
)

// StreamHandler pushes live state over Server-Sent Events. Each stream opens
// with a full snapshot, then emits a fresh snapshot after every committed
// change. Intermediate states may be skipped under load but the latest state
// is always delivered.
type StreamHandler struct {
	Ledger   *services.LedgerService
	Notifier *services.Notifier
}

func (h *StreamHandler) StreamMembers(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	// Subscribe before the initial read so no commit between the two is missed.
	sub := h.Notifier.SubscribeMembers(ownerID)
	defer sub.Close()

	members, err := h.Ledger.ListMembers(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("members", gin.H{"members": members})
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case update, open := <-sub.Updates():
			if !open {
				return false
			}
			c.SSEvent("members", gin.H{"members": update.Members, "seq": update.Seq})
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (h *StreamHandler) StreamSettings(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	sub := h.Notifier.SubscribeSettings(ownerID)
	defer sub.Close()

	settings, err := h.Ledger.GetOrInitSettings(ownerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("settings", settings)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case update, open := <-sub.Updates():
			if !open {
				return false
			}
			c.SSEvent("settings", gin.H{"settings": update.Settings, "seq": update.Seq})
			return true
		case <-ctx.Done():
			return false
		}
	})
}
