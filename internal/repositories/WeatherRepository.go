package repositories

import (
	"context"
	"errors"
	"fmt"

	"weather-udp/config"
	"weather-udp/internal/models"
	"weather-udp/pkg/logger"
)

// Upstream failures. Messages keep the substrings clients look for.
var (
	ErrInvalidAPIKey = errors.New("Invalid API key")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrNotFound      = errors.New("not found")
	ErrParse         = errors.New("failed to parse upstream response")
)

// UpstreamError is any other non-2xx answer from the provider.
type UpstreamError struct {
	Code int
	Body string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.Code, e.Body)
}

type WeatherRepository interface {
	Name() string
	FetchWeather(ctx context.Context, city string) (*models.Forecast, error)
}

// InitWeatherRepositories builds the upstream gateway and the mock
// generator used when the gateway fails.
func InitWeatherRepositories(cfg *config.Config, apiKey string, l *logger.Logger) (WeatherRepository, *MockRepository, error) {
	upstream, err := NewOpenWeatherRepository(OpenWeatherOptions{
		APIKey:          apiKey,
		GeocodeURL:      cfg.Upstream.GeocodeURL,
		OneCallURL:      cfg.Upstream.OneCallURL,
		Timeout:         cfg.Upstream.Timeout,
		GeocodeCacheTTL: cfg.Upstream.GeocodeCacheTTL,
	}, l)
	if err != nil {
		return nil, nil, err
	}

	profiles := DefaultProfiles()
	if len(cfg.Mock.Profiles) > 0 {
		extra := make(map[string]CityProfile, len(cfg.Mock.Profiles))
		for _, p := range cfg.Mock.Profiles {
			extra[p.Name] = CityProfile{
				BaseTemp:  p.BaseTemp,
				TempRange: p.TempRange,
				Humidity:  p.Humidity,
				Timezone:  p.Timezone,
				Lat:       p.Lat,
				Lon:       p.Lon,
				UTCOffset: p.UTCOffset,
			}
		}
		profiles = profiles.Merge(extra)
		l.Info("merged extra city profiles", map[string]any{"count": len(extra), "total": profiles.Len()})
	}

	return upstream, NewMockRepository(profiles, cfg.Mock.Seed, l), nil
}
