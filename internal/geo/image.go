package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultWikiBase = "https://en.wikipedia.org/api/rest_v1"

// ImageClient looks up a representative thumbnail for a place name via the
// Wikipedia summary endpoint. A missing thumbnail is not an error; the image
// is simply absent.
type ImageClient struct {
	httpClient *http.Client
	base       string
}

func NewImageClient() *ImageClient {
	return &ImageClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		base:       defaultWikiBase,
	}
}

// Thumbnail returns the thumbnail URL for the search term, or "" when the
// page exists without one or does not exist at all.
func (c *ImageClient) Thumbnail(ctx context.Context, term string) (string, error) {
	title := url.PathEscape(strings.ReplaceAll(strings.TrimSpace(term), " ", "_"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/page/summary/"+title, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia returned status %d", resp.StatusCode)
	}

	var body struct {
		Thumbnail struct {
			Source string `json:"source"`
		} `json:"thumbnail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("wikipedia response decode: %w", err)
	}
	return body.Thumbnail.Source, nil
}
