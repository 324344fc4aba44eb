package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"expedition/internal/trip"
)

// fakeMapsClient is a test double for the mapsClient interface.
type fakeMapsClient struct {
	geocodeCalls   int
	geocodeResults []maps.GeocodingResult
	geocodeErr     error
	nearbyResults  []maps.PlacesSearchResult
	nearbyErr      error
}

func (f *fakeMapsClient) Geocode(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	f.geocodeCalls++
	return f.geocodeResults, f.geocodeErr
}

func (f *fakeMapsClient) ReverseGeocode(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	return f.geocodeResults, f.geocodeErr
}

func (f *fakeMapsClient) NearbySearch(_ context.Context, _ *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	return maps.PlacesSearchResponse{Results: f.nearbyResults}, f.nearbyErr
}

func geocodeResult(lat, lng float64) maps.GeocodingResult {
	var r maps.GeocodingResult
	r.Geometry.Location = maps.LatLng{Lat: lat, Lng: lng}
	return r
}

func TestGeocodeCacheAside(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fake := &fakeMapsClient{geocodeResults: []maps.GeocodingResult{geocodeResult(35.01, 135.77)}}
	s := &Service{client: fake, cache: cache, log: zap.NewNop()}

	ctx := context.Background()
	first, err := s.Geocode(ctx, "Kyoto, Japan")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	second, err := s.Geocode(ctx, "Kyoto, Japan")
	if err != nil {
		t.Fatalf("cached Geocode: %v", err)
	}
	if fake.geocodeCalls != 1 {
		t.Errorf("geocode API called %d times, want 1 (second hit served from cache)", fake.geocodeCalls)
	}
	if *first != *second {
		t.Errorf("cache returned different coordinates: %+v vs %+v", first, second)
	}
}

func TestGeocodeNotFound(t *testing.T) {
	s := &Service{client: &fakeMapsClient{}, log: zap.NewNop()}
	if _, err := s.Geocode(context.Background(), "xyzzy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSearchPOIsDropsAndCaps(t *testing.T) {
	fake := &fakeMapsClient{nearbyResults: []maps.PlacesSearchResult{
		{Name: "Fushimi Inari", Vicinity: "68 Fukakusa"},
		{Name: "", Vicinity: ""}, // dropped: neither name nor address
		{Name: "Kinkaku-ji", Vicinity: "1 Kinkakujicho"},
		{Name: "Nijo Castle", Vicinity: "541 Nijojocho"},
		{Name: "Gion", Vicinity: ""},
		{Name: "", Vicinity: "Somewhere 12"},
		{Name: "Arashiyama", Vicinity: "Sagatenryuji"},
		{Name: "Nishiki Market", Vicinity: "Nakagyo Ward"},
	}}
	s := &Service{client: fake, log: zap.NewNop()}

	pois, err := s.SearchPOIs(context.Background(), trip.Coordinates{Lon: 135.77, Lat: 35.01}, trip.OccasionCultural)
	if err != nil {
		t.Fatalf("SearchPOIs: %v", err)
	}
	if len(pois) != MaxPOIs {
		t.Fatalf("got %d POIs, want cap of %d", len(pois), MaxPOIs)
	}
	for _, p := range pois {
		if p.Name == "" && p.Address == "" {
			t.Errorf("entry missing both name and address survived: %+v", p)
		}
	}
	if pois[0].Name != "Fushimi Inari" {
		t.Errorf("input order not preserved: first = %q", pois[0].Name)
	}
}

func TestReverseLookupComponentMapping(t *testing.T) {
	r := geocodeResult(35.01, 135.77)
	r.FormattedAddress = "Kyoto, Kyoto Prefecture, Japan"
	r.AddressComponents = []maps.AddressComponent{
		{LongName: "Kyoto", Types: []string{"locality"}},
		{LongName: "Kyoto Prefecture", Types: []string{"administrative_area_level_1"}},
		{LongName: "Japan", Types: []string{"country"}},
	}
	s := &Service{client: &fakeMapsClient{geocodeResults: []maps.GeocodingResult{r}}, log: zap.NewNop()}

	got, err := s.ReverseLookup(context.Background(), 35.01, 135.77)
	if err != nil {
		t.Fatalf("ReverseLookup: %v", err)
	}
	if got.Address.City != "Kyoto" || got.Address.State != "Kyoto Prefecture" || got.Address.Country != "Japan" {
		t.Errorf("address mapping wrong: %+v", got.Address)
	}
	if got.DisplayName != "Kyoto, Kyoto Prefecture, Japan" {
		t.Errorf("display name = %q", got.DisplayName)
	}
}
