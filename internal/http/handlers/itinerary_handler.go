// README: Itinerary planning handler.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"expedition/internal/planner"
	"expedition/internal/trip"
)

const planTimeout = 60 * time.Second

// Planner runs the full pipeline for one completed request.
type Planner interface {
	Plan(ctx context.Context, req *trip.Request) (*planner.Result, error)
}

// Converter normalizes the submitted budget into USD.
type Converter interface {
	ToUSD(ctx context.Context, amount float64, currency string) (float64, error)
}

type ItineraryHandler struct {
	planner Planner
	rates   Converter
}

func NewItineraryHandler(p Planner, r Converter) *ItineraryHandler {
	return &ItineraryHandler{planner: p, rates: r}
}

type itineraryReq struct {
	Location  string  `json:"location"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Occasion  string  `json:"occasion"`
	Budget    float64 `json:"budget"`
	Currency  string  `json:"currency"`
}

type itineraryResp struct {
	Success  bool                   `json:"success"`
	Preview  string                 `json:"preview"`
	Hotels   []planner.HotelSummary `json:"hotels"`
	POIs     []planner.POISummary   `json:"pois"`
	PDFURL   string                 `json:"pdf_url,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
}

// Create handles POST /api/itineraries.
func (h *ItineraryHandler) Create(c *gin.Context) {
	var req itineraryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Location = strings.TrimSpace(req.Location)
	if req.Location == "" {
		writeError(c, http.StatusBadRequest, "missing location")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid startDate, want YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid endDate, want YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(c, http.StatusBadRequest, "endDate before startDate")
		return
	}
	if req.Budget <= 0 {
		writeError(c, http.StatusBadRequest, "budget must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), planTimeout)
	defer cancel()

	budgetUSD, err := h.rates.ToUSD(ctx, req.Budget, req.Currency)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	t := &trip.Request{
		Location:  req.Location,
		StartDate: &start,
		EndDate:   &end,
		Occasion:  strings.TrimSpace(req.Occasion),
		Budget:    &budgetUSD,
		Currency:  "USD",
	}

	res, err := h.planner.Plan(ctx, t)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	resp := itineraryResp{
		Success:  true,
		Preview:  res.Narrative,
		Hotels:   res.HotelSummaries(),
		POIs:     res.POISummaries(),
		Warnings: res.Warnings(),
	}
	if res.PDFToken != "" {
		resp.PDFURL = "/api/download?file=" + res.PDFToken
	}
	writeJSON(c, http.StatusOK, resp)
}
