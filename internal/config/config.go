package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Timezone  string  `validate:"required"`
	Days      int     `validate:"eq=7"`
	Location  *time.Location

	WeatherBaseURL string        `validate:"required,url"`
	WeatherTimeout time.Duration `validate:"gt=0"`

	CruiseURL         string        `validate:"required,url"`
	ConcertURL        string        `validate:"required,url"`
	ConcertVenue      string        `validate:"required"`
	ScrapeTimeout     time.Duration `validate:"gt=0"`
	ScrapeMaxAttempts int           `validate:"gte=1,lte=10"`
	ScrapeRetryDelay  time.Duration `validate:"gte=0"`
	CruiseLimit       int           `validate:"gte=1"`
	ConcertLimit      int           `validate:"gte=1"`

	OutputPath      string `validate:"required"`
	MetricsTextfile string

	KafkaBrokers []string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`

	HTTPAddr        string
	ShutdownTimeout time.Duration

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`
}

// KafkaEnabled reports whether the report should also be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

var validate = validator.New()

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("FORECAST_LATITUDE", "34.4208")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("FORECAST_LONGITUDE", "-119.6982")
	if err != nil {
		return nil, err
	}
	days, err := parseInt("FORECAST_DAYS", "7")
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("FORECAST_TIMEZONE", "America/Los_Angeles")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}

	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	scrapeTimeout, err := parseDuration("SCRAPE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("SCRAPE_RETRY_DELAY", "2s")
	if err != nil {
		return nil, err
	}
	maxAttempts, err := parseInt("SCRAPE_MAX_ATTEMPTS", "3")
	if err != nil {
		return nil, err
	}
	cruiseLimit, err := parseInt("CRUISE_LIMIT", "5")
	if err != nil {
		return nil, err
	}
	concertLimit, err := parseInt("CONCERT_LIMIT", "10")
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		Latitude:  lat,
		Longitude: lon,
		Timezone:  tz,
		Location:  loc,
		Days:      days,

		WeatherBaseURL: sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		WeatherTimeout: weatherTimeout,

		CruiseURL:         sharedcfg.EnvOrDefault("CRUISE_URL", "https://www.cruisemapper.com/ports/santa-barbara-ca-port-852"),
		ConcertURL:        sharedcfg.EnvOrDefault("CONCERT_URL", "https://sbbowl.com/concerts/"),
		ConcertVenue:      sharedcfg.EnvOrDefault("CONCERT_VENUE", "SB Bowl"),
		ScrapeTimeout:     scrapeTimeout,
		ScrapeMaxAttempts: maxAttempts,
		ScrapeRetryDelay:  retryDelay,
		CruiseLimit:       cruiseLimit,
		ConcertLimit:      concertLimit,

		OutputPath:      sharedcfg.EnvOrDefault("FORECAST_OUTPUT", "forecast_data.json"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "demand-forecast"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		LogLevel:  sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid config %s: failed %q check", verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
