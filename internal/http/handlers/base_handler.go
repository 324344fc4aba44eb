// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expedition/internal/geo"
	"expedition/internal/rates"
	"expedition/internal/render"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps the known sentinel errors onto HTTP statuses;
// anything unexpected stays an opaque 500.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geo.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, render.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, rates.ErrUnknownCurrency):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
