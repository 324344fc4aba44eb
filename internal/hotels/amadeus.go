// README: Amadeus hotel-offers search client.
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"expedition/internal/trip"
)

// MaxOffers caps how many offers a search returns.
const MaxOffers = 3

// Offer is one bookable hotel result.
type Offer struct {
	Name       string
	TotalPrice float64
	Currency   string
}

// Query describes a hotel-offers search.
type Query struct {
	Coords      trip.Coordinates
	CheckIn     time.Time
	CheckOut    time.Time
	MaxPerNight float64
}

// Client talks to the Amadeus self-service API. There is no official Go SDK;
// authentication uses the standard client-credentials flow.
type Client struct {
	httpClient *http.Client
	base       string
	log        *zap.Logger
}

// NewClient builds a Client whose transport refreshes the oauth token as
// needed.
func NewClient(apiKey, apiSecret, baseURL string, log *zap.Logger) *Client {
	conf := &clientcredentials.Config{
		ClientID:     apiKey,
		ClientSecret: apiSecret,
		TokenURL:     baseURL + "/v1/security/oauth2/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if log == nil {
		log = zap.NewNop()
	}
	httpClient := conf.Client(context.Background())
	httpClient.Timeout = 10 * time.Second
	return &Client{httpClient: httpClient, base: baseURL, log: log}
}

// offersResponse mirrors the slice of the Amadeus payload we read.
type offersResponse struct {
	Data []struct {
		Hotel struct {
			Name string `json:"name"`
		} `json:"hotel"`
		Offers []struct {
			Price struct {
				Total    string `json:"total"`
				Currency string `json:"currency"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

// Search returns up to MaxOffers hotel offers near the coordinates within
// the per-night price ceiling, cheapest first.
func (c *Client) Search(ctx context.Context, q Query) ([]Offer, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", q.Coords.Lat))
	params.Set("longitude", fmt.Sprintf("%f", q.Coords.Lon))
	params.Set("checkInDate", q.CheckIn.Format("2006-01-02"))
	params.Set("checkOutDate", q.CheckOut.Format("2006-01-02"))
	// Round the ceiling up so a fractional per-night budget is not
	// under-scoped.
	params.Set("priceRange", fmt.Sprintf("0-%d", int(math.Ceil(q.MaxPerNight))))
	params.Set("currency", "USD")
	params.Set("sort", "PRICE")

	endpoint := c.base + "/v3/shopping/hotel-offers?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amadeus returned status %d", resp.StatusCode)
	}

	var body offersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("amadeus response decode: %w", err)
	}

	var offers []Offer
	for _, d := range body.Data {
		if len(d.Offers) == 0 {
			continue
		}
		price, err := strconv.ParseFloat(d.Offers[0].Price.Total, 64)
		if err != nil {
			c.log.Warn("unparseable offer price skipped",
				zap.String("hotel", d.Hotel.Name),
				zap.String("total", d.Offers[0].Price.Total))
			continue
		}
		currency := d.Offers[0].Price.Currency
		if currency == "" {
			currency = "USD"
		}
		offers = append(offers, Offer{Name: d.Hotel.Name, TotalPrice: price, Currency: currency})
	}

	return SelectTop(offers, MaxOffers), nil
}
