// README: Reverse-lookup handler (address, ocean classification, thumbnail).
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"expedition/internal/geo"
)

const lookupTimeout = 10 * time.Second

type ReverseLookuper interface {
	ReverseLookup(ctx context.Context, lat, lon float64) (*geo.Lookup, error)
}

type Thumbnailer interface {
	Thumbnail(ctx context.Context, term string) (string, error)
}

type LocationHandler struct {
	geo    ReverseLookuper
	images Thumbnailer
}

func NewLocationHandler(g ReverseLookuper, i Thumbnailer) *LocationHandler {
	return &LocationHandler{geo: g, images: i}
}

type reverseResp struct {
	DisplayName string      `json:"display_name"`
	Image       *string     `json:"image"`
	IsOcean     bool        `json:"is_ocean"`
	Address     geo.Address `json:"address"`
}

// Reverse handles GET /api/location/reverse?lat=&lon=.
func (h *LocationHandler) Reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(c, http.StatusBadRequest, "lat and lon must be decimal degrees")
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(c, http.StatusBadRequest, "lat or lon out of range")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), lookupTimeout)
	defer cancel()

	lookup, err := h.geo.ReverseLookup(ctx, lat, lon)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	cls := geo.Classify(lookup.DisplayName, lookup.Address)
	resp := reverseResp{
		DisplayName: lookup.DisplayName,
		IsOcean:     cls.IsOcean,
		Address:     lookup.Address,
	}

	// A missing thumbnail is not an error; the field stays null.
	if !cls.IsOcean && cls.SearchTerm != "" {
		if url, err := h.images.Thumbnail(ctx, cls.SearchTerm); err == nil && url != "" {
			resp.Image = &url
		}
	}
	writeJSON(c, http.StatusOK, resp)
}
