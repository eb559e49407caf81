package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
)

const sourceName = "weather"

var errShortForecast = errors.New("forecast block shorter than requested")

// Client fetches the daily forecast from the Open-Meteo API. It implements
// pipeline.WeatherSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
	lat        float64
	lon        float64
	timezone   string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a client for fixed coordinates and timezone.
func NewClient(baseURL string, lat, lon float64, timezone string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		lat:        lat,
		lon:        lon,
		timezone:   timezone,
		metrics:    metrics,
		logger:     logger,
	}
}

// Forecast returns the next days of daily weather, aligned by index with the
// calendar window starting today. On any failure it logs a warning and reports
// false; weather is optional for the run.
func (c *Client) Forecast(ctx context.Context, days int) (domain.WeatherForecast, bool) {
	forecast, err := c.fetch(ctx, days)
	if err != nil {
		c.logger.Warn("weather fetch failed, continuing without weather", "error", err)
		c.metrics.SourceFetches.WithLabelValues(sourceName, observability.OutcomeError).Inc()
		return nil, false
	}
	c.metrics.SourceFetches.WithLabelValues(sourceName, observability.OutcomeSuccess).Inc()
	c.logger.Info("weather fetched", "days", len(forecast))
	return forecast, true
}

func (c *Client) fetch(ctx context.Context, days int) (domain.WeatherForecast, error) {
	params := url.Values{
		"latitude":         {strconv.FormatFloat(c.lat, 'f', 4, 64)},
		"longitude":        {strconv.FormatFloat(c.lon, 'f', 4, 64)},
		"daily":            {"temperature_2m_max,temperature_2m_min,precipitation_probability_max,weathercode"},
		"temperature_unit": {"fahrenheit"},
		"timezone":         {c.timezone},
		"forecast_days":    {strconv.Itoa(days)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	return DecodeForecast(resp.Body, days)
}

// DecodeForecast parses an Open-Meteo daily response into days entries.
// Temperatures are truncated to whole degrees; a missing precipitation value
// counts as 0%. A block that cannot cover every requested day is rejected.
func DecodeForecast(r io.Reader, days int) (domain.WeatherForecast, error) {
	var payload response
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if payload.Daily == nil {
		return nil, errors.New("decode response: missing daily block")
	}

	d := payload.Daily
	if len(d.TempMax) < days || len(d.TempMin) < days || len(d.PrecipProbMax) < days {
		return nil, fmt.Errorf("%w: want %d, got max=%d min=%d precip=%d",
			errShortForecast, days, len(d.TempMax), len(d.TempMin), len(d.PrecipProbMax))
	}

	forecast := make(domain.WeatherForecast, 0, days)
	for i := range days {
		if d.TempMax[i] == nil || d.TempMin[i] == nil {
			return nil, fmt.Errorf("decode response: missing temperature for day %d", i)
		}
		var rain int
		if p := d.PrecipProbMax[i]; p != nil {
			rain = int(*p)
		}
		cond := domain.ConditionUnknown
		if i < len(d.WeatherCode) && d.WeatherCode[i] != nil {
			cond = conditionFromCode(*d.WeatherCode[i])
		}
		forecast = append(forecast, domain.WeatherDay{
			TempHigh:  int(*d.TempMax[i]),
			TempLow:   int(*d.TempMin[i]),
			RainProb:  rain,
			Condition: cond,
		})
	}
	return forecast, nil
}

// conditionFromCode maps WMO weather codes to a coarse condition.
func conditionFromCode(code int) domain.Condition {
	switch {
	case code == 0:
		return domain.ConditionClear
	case code >= 1 && code <= 3:
		return domain.ConditionCloudy
	case code == 45 || code == 48:
		return domain.ConditionFog
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return domain.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return domain.ConditionSnow
	case code >= 95:
		return domain.ConditionStorm
	default:
		return domain.ConditionUnknown
	}
}

// Open-Meteo API response types.

type response struct {
	Daily *daily `json:"daily"`
}

type daily struct {
	Time          []string   `json:"time"`
	TempMax       []*float64 `json:"temperature_2m_max"`
	TempMin       []*float64 `json:"temperature_2m_min"`
	PrecipProbMax []*float64 `json:"precipitation_probability_max"`
	WeatherCode   []*int     `json:"weathercode"`
}
