package repositories

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-udp/pkg/logger"
)

const oneCallBody = `{
  "lat": 21.0285, "lon": 105.8542, "timezone": "Asia/Ho_Chi_Minh", "timezone_offset": 25200,
  "current": {"dt": 1792206000, "temp": 29.5, "feels_like": 33.1, "humidity": 74, "pressure": 1009,
    "uvi": 7.2, "visibility": 10000, "wind_speed": 2.6, "wind_deg": 140,
    "weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}]},
  "hourly": [{"dt": 1792206000, "temp": 29.5, "feels_like": 33.1, "humidity": 74, "pressure": 1009,
    "uvi": 7.2, "wind_speed": 2.6, "wind_deg": 140, "pop": 0.2,
    "weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}]}],
  "daily": [{"dt": 1792206000, "temp": {"day": 30, "min": 24, "max": 32, "night": 25, "eve": 28, "morn": 25},
    "feels_like": {"day": 34, "night": 26, "eve": 31, "morn": 26}, "humidity": 70, "pressure": 1008,
    "uvi": 9, "wind_speed": 3.1, "wind_deg": 120, "pop": 0.65, "rain": 4.3,
    "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}]}]
}`

type fakeUpstream struct {
	geocodeStatus int
	geocodeBody   string
	oneCallStatus int
	oneCallBody   string
	geocodeCalls  atomic.Int32
	lastQuery     atomic.Value
}

func newFakeUpstream(t *testing.T, f *fakeUpstream) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		w.WriteHeader(f.geocodeStatus)
		_, _ = w.Write([]byte(f.geocodeBody))
	})
	mux.HandleFunc("/data/2.5/onecall", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.Query())
		w.WriteHeader(f.oneCallStatus)
		_, _ = w.Write([]byte(f.oneCallBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGateway(t *testing.T, srv *httptest.Server, cacheTTL time.Duration) *OpenWeatherRepository {
	t.Helper()
	repo, err := NewOpenWeatherRepository(OpenWeatherOptions{
		APIKey:          "test-key",
		GeocodeURL:      srv.URL + "/geo/1.0/direct",
		OneCallURL:      srv.URL + "/data/2.5/onecall",
		Timeout:         2 * time.Second,
		GeocodeCacheTTL: cacheTTL,
	}, logger.NewNop())
	require.NoError(t, err)
	return repo
}

func TestNewOpenWeatherRepository_EmptyKey(t *testing.T) {
	_, err := NewOpenWeatherRepository(OpenWeatherOptions{APIKey: "  "}, logger.NewNop())
	assert.Error(t, err)
}

func TestOpenWeatherRepository_FetchWeather(t *testing.T) {
	f := &fakeUpstream{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `[{"name":"Hanoi","lat":21.0285,"lon":105.8542,"country":"VN"}]`,
		oneCallStatus: http.StatusOK,
		oneCallBody:   oneCallBody,
	}
	repo := newTestGateway(t, newFakeUpstream(t, f), 0)

	forecast, err := repo.FetchWeather(context.Background(), "Hanoi")
	require.NoError(t, err)

	assert.Equal(t, "Asia/Ho_Chi_Minh", forecast.Timezone)
	require.NotNil(t, forecast.Current)
	assert.Equal(t, 74, forecast.Current.Humidity)
	require.Len(t, forecast.Daily, 1)
	assert.Equal(t, 4.3, forecast.Daily[0].RainTotal())
	assert.Equal(t, 24.0, forecast.Daily[0].Temp.Min)

	query := f.lastQuery.Load().(url.Values)
	assert.Equal(t, []string{"metric"}, query["units"])
	assert.Equal(t, []string{"minutely,alerts"}, query["exclude"])
	assert.Equal(t, []string{"test-key"}, query["appid"])
}

func TestOpenWeatherRepository_GeocodeEmptyIsNotFound(t *testing.T) {
	f := &fakeUpstream{geocodeStatus: http.StatusOK, geocodeBody: `[]`}
	repo := newTestGateway(t, newFakeUpstream(t, f), 0)

	_, err := repo.FetchWeather(context.Background(), "Atlantis")

	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "City not found: Atlantis")
}

func TestOpenWeatherRepository_StatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		target    error
		substring string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"cod":401}`, ErrInvalidAPIKey, "401"},
		{"rate limited", http.StatusTooManyRequests, `{"cod":429}`, ErrRateLimited, "rate limit"},
		{"not found", http.StatusNotFound, `{"cod":404}`, ErrNotFound, "not found"},
		{"empty body", http.StatusOK, ``, ErrParse, "empty body"},
		{"bad json", http.StatusOK, `{"current":`, ErrParse, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeUpstream{
				geocodeStatus: http.StatusOK,
				geocodeBody:   `[{"name":"Paris","lat":48.85,"lon":2.35,"country":"FR"}]`,
				oneCallStatus: tt.status,
				oneCallBody:   tt.body,
			}
			repo := newTestGateway(t, newFakeUpstream(t, f), 0)

			_, err := repo.FetchWeather(context.Background(), "Paris")

			require.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.substring)
		})
	}
}

func TestOpenWeatherRepository_UpstreamError(t *testing.T) {
	f := &fakeUpstream{geocodeStatus: http.StatusBadGateway, geocodeBody: "bad gateway"}
	repo := newTestGateway(t, newFakeUpstream(t, f), 0)

	_, err := repo.Geocode(context.Background(), "Paris")

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadGateway, upstreamErr.Code)
	assert.Equal(t, "bad gateway", upstreamErr.Body)
}

func TestOpenWeatherRepository_GeocodeCache(t *testing.T) {
	f := &fakeUpstream{
		geocodeStatus: http.StatusOK,
		geocodeBody:   `[{"name":"Tokyo","lat":35.67,"lon":139.65,"country":"JP"}]`,
	}
	srv := newFakeUpstream(t, f)

	uncached := newTestGateway(t, srv, 0)
	for i := 0; i < 3; i++ {
		_, err := uncached.Geocode(context.Background(), "Tokyo")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, f.geocodeCalls.Load())

	cached := newTestGateway(t, srv, time.Minute)
	for _, city := range []string{"Tokyo", "tokyo ", "TOKYO"} {
		loc, err := cached.Geocode(context.Background(), city)
		require.NoError(t, err)
		assert.Equal(t, "JP", loc.Country)
	}
	assert.EqualValues(t, 4, f.geocodeCalls.Load())
}

func TestOpenWeatherRepository_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	repo := newTestGateway(t, srv, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := repo.Geocode(ctx, "Paris")
	assert.Error(t, err)
}
