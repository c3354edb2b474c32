// Package weather infers a mood hint from current weather conditions.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	baseURL   = "https://api.open-meteo.com/v1/forecast"
	userAgent = "goosechase-music-discovery/1.0"
)

// Conditions is the current weather at a location.
type Conditions struct {
	Code        int     // WMO condition code, e.g. 61 = slight rain
	Temperature float64 // degrees Celsius
}

// Client is an Open-Meteo current-weather client. The API is unauthenticated.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new weather API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type weatherResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current fetches the current condition code and temperature at the coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	params := url.Values{
		"latitude":        {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(lon, 'f', -1, 64)},
		"current_weather": {"true"},
	}
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var parsed weatherResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing weather response: %w", err)
	}

	return &Conditions{
		Code:        parsed.CurrentWeather.WeatherCode,
		Temperature: parsed.CurrentWeather.Temperature,
	}, nil
}
