// Package edamam is a small client for the Edamam food-database parser API.
// It only extracts what the food search needs: a label and its kcal per 100 g.
package edamam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sakif/vitaltrack/internal/model"
)

// DefaultBaseURL is the public parser endpoint.
const DefaultBaseURL = "https://api.edamam.com/api/food-database/v2/parser"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 2 << 20

// ErrNotConfigured is returned by Search when no credentials were supplied.
var ErrNotConfigured = errors.New("edamam: credentials not configured")

// Config holds the client settings.
type Config struct {
	AppID   string
	AppKey  string
	BaseURL string
	Timeout time.Duration
}

// Client calls the parser endpoint. The zero timeout falls back to 10s.
type Client struct {
	appID   string
	appKey  string
	baseURL string
	http    *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

type parserResponse struct {
	Hints []struct {
		Food struct {
			Label     string `json:"label"`
			Nutrients struct {
				EnercKcal float64 `json:"ENERC_KCAL"`
			} `json:"nutrients"`
		} `json:"food"`
	} `json:"hints"`
}

// Search looks up query among generic foods and returns one result per hint,
// in the order the API ranks them. Calories are rounded to whole kcal.
func (c *Client) Search(ctx context.Context, query string) ([]model.FoodResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("edamam: parsing base url: %w", err)
	}
	q := u.Query()
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	q.Set("ingr", query)
	q.Set("category", "generic-foods")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("edamam: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edamam: calling parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("edamam: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam: parser returned status %d", resp.StatusCode)
	}

	var pr parserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("edamam: decoding response: %w", err)
	}

	results := make([]model.FoodResult, 0, len(pr.Hints))
	for _, h := range pr.Hints {
		label := strings.TrimSpace(h.Food.Label)
		if label == "" {
			continue
		}
		results = append(results, model.FoodResult{
			Name:     label,
			Calories: int(math.Round(max(h.Food.Nutrients.EnercKcal, 0))),
			Source:   model.SourceEdamam,
		})
	}
	return results, nil
}
