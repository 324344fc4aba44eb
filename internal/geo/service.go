// README: Google Maps geocoding, reverse lookup, and POI search.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"expedition/internal/trip"
)

const (
	// MaxPOIs caps the number of points of interest returned per search.
	MaxPOIs = 5

	poiRadiusMeters = 5000
	geocodeCacheTTL = 24 * time.Hour
)

// ErrNotFound is returned when a query resolves to no usable result.
var ErrNotFound = errors.New("location not found")

// POI is a simplified point-of-interest result.
type POI struct {
	Name    string
	Address string
	Rating  float32
}

// mapsClient is the slice of the Google Maps client the service uses;
// narrowed for test doubles.
type mapsClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// Service handles interactions with the Google Maps APIs. Forward geocoding
// results are cached in redis when a cache client is provided.
type Service struct {
	client mapsClient
	cache  *redis.Client
	log    *zap.Logger
}

// NewService creates a Service with the given API key. cache may be nil.
func NewService(apiKey string, cache *redis.Client, log *zap.Logger) (*Service, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{client: client, cache: cache, log: log}, nil
}

// Geocode resolves free text to coordinates. A nil error with non-nil
// coordinates means resolved; ErrNotFound means the text matched nothing.
func (s *Service) Geocode(ctx context.Context, location string) (*trip.Coordinates, error) {
	key := "geo:fwd:" + strings.ToLower(strings.TrimSpace(location))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var c trip.Coordinates
			if _, err := fmt.Sscanf(cached, "%f,%f", &c.Lon, &c.Lat); err == nil {
				return &c, nil
			}
		}
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: location})
	if err != nil {
		return nil, fmt.Errorf("geocode api error: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	loc := results[0].Geometry.Location
	c := &trip.Coordinates{Lon: loc.Lng, Lat: loc.Lat}

	if s.cache != nil {
		val := fmt.Sprintf("%f,%f", c.Lon, c.Lat)
		if err := s.cache.Set(ctx, key, val, geocodeCacheTTL).Err(); err != nil {
			s.log.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return c, nil
}

// SearchPOIs queries points of interest near the coordinates, using the
// keyword category mapped from the occasion. Results missing both a name and
// an address are dropped; at most MaxPOIs are returned.
func (s *Service) SearchPOIs(ctx context.Context, c trip.Coordinates, occasion string) ([]POI, error) {
	resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: c.Lat, Lng: c.Lon},
		Radius:   poiRadiusMeters,
		Keyword:  trip.POICategory(occasion),
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	pois := lo.Map(resp.Results, func(r maps.PlacesSearchResult, _ int) POI {
		addr := r.Vicinity
		if addr == "" {
			addr = r.FormattedAddress
		}
		return POI{Name: r.Name, Address: addr, Rating: r.Rating}
	})
	pois = lo.Filter(pois, func(p POI, _ int) bool {
		return p.Name != "" || p.Address != ""
	})
	if len(pois) > MaxPOIs {
		pois = pois[:MaxPOIs]
	}
	return pois, nil
}

// Address holds the resolved locality components of a reverse lookup.
type Address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Hamlet  string `json:"-"`
	State   string `json:"-"`
	Country string `json:"country"`
}

// Lookup is the result of a reverse geocode.
type Lookup struct {
	DisplayName string
	Address     Address
}

// ReverseLookup resolves coordinates to a display name and locality
// components. Google component types are mapped onto the city/town/village
// vocabulary on a best-effort basis.
func (s *Service) ReverseLookup(ctx context.Context, lat, lon float64) (*Lookup, error) {
	results, err := s.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lon},
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocode api error: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	best := results[0]
	out := &Lookup{DisplayName: best.FormattedAddress}
	for _, comp := range best.AddressComponents {
		for _, typ := range comp.Types {
			switch typ {
			case "locality":
				out.Address.City = comp.LongName
			case "postal_town":
				out.Address.Town = comp.LongName
			case "sublocality", "sublocality_level_1":
				out.Address.Village = comp.LongName
			case "neighborhood":
				out.Address.Hamlet = comp.LongName
			case "administrative_area_level_1":
				out.Address.State = comp.LongName
			case "country":
				out.Address.Country = comp.LongName
			}
		}
	}
	return out, nil
}
