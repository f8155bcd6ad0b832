package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gardenplan/core/internal/domain/entities"
	"github.com/gardenplan/core/internal/infrastructure/config"
	"github.com/gardenplan/core/internal/infrastructure/logger"
	"github.com/gardenplan/core/internal/ports"
)

// Client fetches recent weather from an external HTTP source. Any
// failure is reported as "no data"; the planner never fails on
// weather.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a weather client from configuration. Returns nil
// when the source is disabled, which callers pass through as a nil
// WeatherSource.
func NewClient(cfg config.WeatherConfig, logger *logger.Logger) ports.WeatherSource {
	if !cfg.Enabled {
		return nil
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		logger:     logger,
	}
}

type currentResponse struct {
	PrecipitationLast7Days float64 `json:"precipitation_last_7_days"`
	MaxTempToday           float64 `json:"max_temp_today"`
}

// Current returns the last-7-days precipitation and today's maximum
// temperature for the given coordinates.
func (c *Client) Current(ctx context.Context, lat, lon float64) (entities.WeatherData, bool) {
	endpoint := fmt.Sprintf("%s/v1/current?lat=%s&lon=%s",
		c.baseURL,
		url.QueryEscape(fmt.Sprintf("%.4f", lat)),
		url.QueryEscape(fmt.Sprintf("%.4f", lon)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Warn("Failed to build weather request", "error", err)
		return entities.WeatherData{}, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Weather request failed", "error", err)
		return entities.WeatherData{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Weather source returned non-OK status", "status", resp.StatusCode)
		return entities.WeatherData{}, false
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Warn("Failed to decode weather response", "error", err)
		return entities.WeatherData{}, false
	}

	return entities.WeatherData{
		PrecipitationLast7Days: body.PrecipitationLast7Days,
		MaxTempToday:           body.MaxTempToday,
	}, true
}
