package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"

	"weather-udp/internal/models"
	"weather-udp/pkg/logger"
)

const (
	OpenWeatherGeocodeURL = "http://api.openweathermap.org/geo/1.0/direct"
	OpenWeatherOneCallURL = "https://api.openweathermap.org/data/2.5/onecall"

	defaultUpstreamTimeout = 10 * time.Second
	maxErrorBody           = 512
)

type OpenWeatherOptions struct {
	APIKey     string
	GeocodeURL string
	OneCallURL string
	Timeout    time.Duration
	// GeocodeCacheTTL keeps geocode results for repeated cities. Zero
	// disables the cache and every request geocodes again.
	GeocodeCacheTTL time.Duration
}

type OpenWeatherRepository struct {
	apiKey     string
	geocodeURL string
	oneCallURL string
	client     *resty.Client
	geocodes   *cache.Cache
	l          *logger.Logger
}

// Location is one geocoding hit.
type Location struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

func NewOpenWeatherRepository(opts OpenWeatherOptions, l *logger.Logger) (*OpenWeatherRepository, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("API key cannot be empty")
	}
	if opts.GeocodeURL == "" {
		opts.GeocodeURL = OpenWeatherGeocodeURL
	}
	if opts.OneCallURL == "" {
		opts.OneCallURL = OpenWeatherOneCallURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultUpstreamTimeout
	}

	repo := &OpenWeatherRepository{
		apiKey:     opts.APIKey,
		geocodeURL: opts.GeocodeURL,
		oneCallURL: opts.OneCallURL,
		client: resty.New().
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		l: l,
	}
	if opts.GeocodeCacheTTL > 0 {
		repo.geocodes = cache.New(opts.GeocodeCacheTTL, 2*opts.GeocodeCacheTTL)
	}

	return repo, nil
}

func (o *OpenWeatherRepository) Name() string {
	return "openweather"
}

// FetchWeather geocodes the city and fetches its one-call forecast.
func (o *OpenWeatherRepository) FetchWeather(ctx context.Context, city string) (*models.Forecast, error) {
	loc, err := o.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}
	return o.FetchForecast(ctx, loc.Lat, loc.Lon)
}

func (o *OpenWeatherRepository) Geocode(ctx context.Context, city string) (Location, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(city))
	if o.geocodes != nil {
		if cached, found := o.geocodes.Get(cacheKey); found {
			return cached.(Location), nil
		}
	}

	o.l.Debug("making geocode request", map[string]any{"city": city})

	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"limit": "1",
			"appid": o.apiKey,
		}).
		Get(o.geocodeURL)
	if err != nil {
		return Location{}, fmt.Errorf("geocode request failed: %w", err)
	}
	if err := classify(resp); err != nil {
		return Location{}, err
	}

	var hits []Location
	if err := decodeBody(resp.Body(), &hits); err != nil {
		return Location{}, err
	}
	if len(hits) == 0 {
		return Location{}, fmt.Errorf("City %w: %s", ErrNotFound, city)
	}

	if o.geocodes != nil {
		o.geocodes.Set(cacheKey, hits[0], cache.DefaultExpiration)
	}

	return hits[0], nil
}

func (o *OpenWeatherRepository) FetchForecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	o.l.Info("making openweather one-call request", map[string]any{"lat": lat, "lon": lon})

	resp, err := o.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":     strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":     strconv.FormatFloat(lon, 'f', -1, 64),
			"exclude": "minutely,alerts",
			"units":   "metric",
			"appid":   o.apiKey,
		}).
		Get(o.oneCallURL)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}

	o.l.Debug("received openweather response", map[string]any{
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})

	if err := classify(resp); err != nil {
		return nil, err
	}

	var forecast models.Forecast
	if err := decodeBody(resp.Body(), &forecast); err != nil {
		return nil, err
	}

	return &forecast, nil
}

func classify(resp *resty.Response) error {
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized:
		return fmt.Errorf("upstream returned 401: %w", ErrInvalidAPIKey)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("upstream returned 429: %w", ErrRateLimited)
	case code == http.StatusNotFound:
		return fmt.Errorf("upstream returned 404: %w", ErrNotFound)
	default:
		body := string(resp.Body())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &UpstreamError{Code: code, Body: body}
	}
}

func decodeBody(body []byte, v any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return fmt.Errorf("%w: empty body", ErrParse)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}
