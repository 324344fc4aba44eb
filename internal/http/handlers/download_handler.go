// README: Single-use PDF download handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ArtifactTaker hands out a rendered PDF exactly once.
type ArtifactTaker interface {
	Take(token string) ([]byte, error)
}

type DownloadHandler struct {
	artifacts ArtifactTaker
}

func NewDownloadHandler(a ArtifactTaker) *DownloadHandler {
	return &DownloadHandler{artifacts: a}
}

// Get handles GET /api/download?file=<token>. The artifact is deleted on
// first delivery; repeat requests see 404.
func (h *DownloadHandler) Get(c *gin.Context) {
	token := c.Query("file")
	if token == "" {
		writeError(c, http.StatusBadRequest, "missing file parameter")
		return
	}

	data, err := h.artifacts.Take(token)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="itinerary.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
