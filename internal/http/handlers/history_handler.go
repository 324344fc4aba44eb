// README: Archived itinerary listing handler.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expedition/internal/modules/history"
)

type HistoryLister interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

type HistoryHandler struct {
	store HistoryLister
}

func NewHistoryHandler(s HistoryLister) *HistoryHandler {
	return &HistoryHandler{store: s}
}

// List handles GET /api/itineraries/history?limit=.
func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	entries, err := h.store.Recent(ctx, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"entries": entries})
}
