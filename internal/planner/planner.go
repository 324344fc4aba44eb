// README: Itinerary orchestrator; sequences geocode, POI, hotel, AI, and
// rendering stages with per-stage degradation.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"expedition/internal/ai"
	"expedition/internal/geo"
	"expedition/internal/hotels"
	"expedition/internal/trip"
)

// Stage names one external-data-dependent step of the pipeline.
type Stage string

const (
	StageGeocode     Stage = "geocode"
	StagePOISearch   Stage = "poi_search"
	StageHotelSearch Stage = "hotel_search"
	StageAISynthesis Stage = "ai_synthesis"
	StageRender      Stage = "render"
)

// FailureKind classifies why a stage contributed nothing.
type FailureKind string

const (
	// KindUpstream covers timeouts, errors, and unexpected shapes from an
	// external source. The pipeline continues with degraded output.
	KindUpstream FailureKind = "upstream_unavailable"

	// KindMalformedAI marks model output that failed structural parsing;
	// the raw text still serves as the narrative.
	KindMalformedAI FailureKind = "malformed_ai_response"

	// KindSkipped marks a stage that never ran because a stage it depends
	// on produced nothing. Skipped is not failed.
	KindSkipped FailureKind = "skipped"
)

// StageFailure records one degraded stage for the diagnostics list.
type StageFailure struct {
	Stage   Stage
	Kind    FailureKind
	Message string
}

func (f StageFailure) String() string {
	return fmt.Sprintf("%s: %s (%s)", f.Stage, f.Kind, f.Message)
}

// Result aggregates the independently-optional stage outputs.
type Result struct {
	POIs      []geo.POI
	Offers    []hotels.Offer
	AIHotels  []ai.HotelSuggestion
	AIPOIs    []ai.POISuggestion
	Narrative string
	PDFToken  string
	Failures  []StageFailure
}

// External collaborators, narrowed to what the pipeline needs.
type (
	Geocoder interface {
		Geocode(ctx context.Context, location string) (*trip.Coordinates, error)
	}
	POISearcher interface {
		SearchPOIs(ctx context.Context, c trip.Coordinates, occasion string) ([]geo.POI, error)
	}
	HotelSearcher interface {
		Search(ctx context.Context, q hotels.Query) ([]hotels.Offer, error)
	}
	Renderer interface {
		Render(req *trip.Request, narrative string) (string, error)
	}
	// Archiver records completed plans. Best-effort: failures are logged,
	// never surfaced.
	Archiver interface {
		Archive(ctx context.Context, req *trip.Request, narrative string, failures int) error
	}
)

// Planner runs the pipeline once per completed trip request.
type Planner struct {
	geocoder     Geocoder
	pois         POISearcher
	hotels       HotelSearcher
	llm          ai.LLMProvider
	renderer     Renderer
	archiver     Archiver
	stageTimeout time.Duration
	log          *zap.Logger
}

type Deps struct {
	Geocoder     Geocoder
	POIs         POISearcher
	Hotels       HotelSearcher
	LLM          ai.LLMProvider
	Renderer     Renderer
	Archiver     Archiver
	StageTimeout time.Duration
	Log          *zap.Logger
}

func New(deps Deps) *Planner {
	if deps.StageTimeout <= 0 {
		deps.StageTimeout = 10 * time.Second
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Planner{
		geocoder:     deps.Geocoder,
		pois:         deps.POIs,
		hotels:       deps.Hotels,
		llm:          deps.LLM,
		renderer:     deps.Renderer,
		archiver:     deps.Archiver,
		stageTimeout: deps.StageTimeout,
		log:          deps.Log,
	}
}

// Plan executes the pipeline. No single stage failure aborts it; each
// failure degrades that stage's contribution and is recorded. The only hard
// error is context cancellation, after which nothing is delivered.
func (p *Planner) Plan(ctx context.Context, req *trip.Request) (*Result, error) {
	res := &Result{}

	coords := p.resolveCoordinates(ctx, req, res)

	if coords != nil {
		p.runSearches(ctx, req, *coords, res)
	}

	p.synthesize(ctx, req, res)

	// A cancel that raced the stages wins: results are discarded.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if token, err := p.renderer.Render(req, res.Narrative); err != nil {
		p.log.Warn("render stage failed", zap.Error(err))
		res.Failures = append(res.Failures, StageFailure{StageRender, KindUpstream, err.Error()})
	} else {
		res.PDFToken = token
	}

	if p.archiver != nil {
		if err := p.archiver.Archive(ctx, req, res.Narrative, len(res.Failures)); err != nil {
			p.log.Warn("archive failed", zap.Error(err))
		}
	}
	return res, nil
}

// resolveCoordinates geocodes the location unless the conversation already
// did. A failed resolution records the geocode failure plus skip markers for
// both searches, which structurally require coordinates.
func (p *Planner) resolveCoordinates(ctx context.Context, req *trip.Request, res *Result) *trip.Coordinates {
	if req.Coords != nil {
		return req.Coords
	}

	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	coords, err := p.geocoder.Geocode(sctx, req.Location)
	if err != nil || coords == nil {
		msg := "location not resolvable"
		if err != nil {
			msg = err.Error()
		}
		p.log.Warn("geocode stage failed", zap.String("location", req.Location), zap.Error(err))
		res.Failures = append(res.Failures,
			StageFailure{StageGeocode, KindUpstream, msg},
			StageFailure{StagePOISearch, KindSkipped, "no coordinates"},
			StageFailure{StageHotelSearch, KindSkipped, "no coordinates"},
		)
		return nil
	}
	req.Coords = coords
	return coords
}

// runSearches runs the POI and hotel stages concurrently; they are mutually
// independent and neither observes the other's result.
func (p *Planner) runSearches(ctx context.Context, req *trip.Request, coords trip.Coordinates, res *Result) {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		pois, err := p.pois.SearchPOIs(sctx, coords, req.Occasion)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			p.log.Warn("poi stage failed", zap.Error(err))
			res.Failures = append(res.Failures, StageFailure{StagePOISearch, KindUpstream, err.Error()})
			return
		}
		res.POIs = pois
	}()
	go func() {
		defer wg.Done()
		sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
		offers, err := p.hotels.Search(sctx, hotels.Query{
			Coords:      coords,
			CheckIn:     *req.StartDate,
			CheckOut:    *req.EndDate,
			MaxPerNight: req.HotelBudgetPerNight(),
		})
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			p.log.Warn("hotel stage failed", zap.Error(err))
			res.Failures = append(res.Failures, StageFailure{StageHotelSearch, KindUpstream, err.Error()})
			return
		}
		res.Offers = offers
	}()
	wg.Wait()
}

// synthesize asks the model for the structured itinerary and applies the
// degradation ladder: full structure, raw-text narrative, or a canned
// fallback message.
func (p *Planner) synthesize(ctx context.Context, req *trip.Request, res *Result) {
	sctx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	defer cancel()

	it, raw, err := p.llm.GenerateItinerary(sctx, promptInput(req, res))
	switch {
	case err == nil:
		res.AIHotels = it.Hotels
		res.AIPOIs = it.POIs
		res.Narrative = it.Narrative
	case errors.Is(err, ai.ErrMalformedResponse):
		p.log.Warn("ai response malformed, degrading to narrative-only")
		res.Narrative = raw
		res.Failures = append(res.Failures, StageFailure{StageAISynthesis, KindMalformedAI, "structured parse failed"})
	default:
		p.log.Warn("ai stage failed", zap.Error(err))
		res.Narrative = fmt.Sprintf(
			"We couldn't generate a full itinerary for %s this time. The hotel and sightseeing results below are still yours to keep.",
			req.Location)
		res.Failures = append(res.Failures, StageFailure{StageAISynthesis, KindUpstream, err.Error()})
	}
}

func promptInput(req *trip.Request, res *Result) ai.PromptInput {
	in := ai.PromptInput{
		Location:  req.Location,
		StartDate: req.StartDate.Format("2006-01-02"),
		EndDate:   req.EndDate.Format("2006-01-02"),
		Occasion:  req.Occasion,
		Budget:    *req.Budget,
	}
	for _, poi := range res.POIs {
		in.KnownPOIs = append(in.KnownPOIs, poi.Name)
	}
	for _, offer := range res.Offers {
		in.KnownHotels = append(in.KnownHotels, fmt.Sprintf("%s ($%.2f total)", offer.Name, offer.TotalPrice))
	}
	return in
}
