package weather_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-udp/internal/models"
	"weather-udp/internal/protocol"
	"weather-udp/internal/repositories"
	"weather-udp/internal/services/weather"
	"weather-udp/pkg/logger"
)

// StubRepository implements WeatherRepository for testing
type StubRepository struct {
	name      string
	err       error
	forecast  *models.Forecast
	callCount int
}

func (s *StubRepository) Name() string {
	return s.name
}

func (s *StubRepository) FetchWeather(_ context.Context, _ string) (*models.Forecast, error) {
	s.callCount++
	if s.err != nil {
		return nil, s.err
	}
	return s.forecast, nil
}

// 2026-10-17 06:00 UTC
var fixedNow = time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)

func newMock() *repositories.MockRepository {
	return repositories.NewMockRepository(repositories.DefaultProfiles(), 11, logger.NewNop(),
		repositories.WithClock(func() time.Time { return fixedNow }))
}

// dirtyForecast carries out-of-range values the service must sanitize.
func dirtyForecast() *models.Forecast {
	day := int64(1792195200) // 2026-10-17 00:00 UTC
	hourly := make([]models.Hourly, 0, 60)
	for i := 0; i < 60; i++ {
		hourly = append(hourly, models.Hourly{
			Timestamp: day + int64(i)*3600,
			Temp:      20,
			Humidity:  140,
			Pop:       1.8,
			Weather:   []models.Condition{{Main: "Rain", Description: "heavy rain", Icon: "10d"}},
		})
	}
	daily := make([]models.Daily, 0, 8)
	for i := 0; i < 8; i++ {
		daily = append(daily, models.Daily{
			Timestamp: day + 43200 + int64(i)*models.SecondsPerDay,
			Temp:      models.DailyTemp{Day: 25, Min: 30, Max: 18},
			Humidity:  -5,
			Pop:       math.NaN(),
			Weather:   []models.Condition{{Main: "Clouds", Description: "overcast clouds", Icon: "04d"}},
		})
	}
	return &models.Forecast{
		Timezone: "Europe/Paris",
		Current: &models.Current{
			Timestamp:  day + 3600,
			Temp:       21,
			Humidity:   120,
			Uvi:        -2,
			Visibility: -100,
			WindDeg:    725,
		},
		Hourly: hourly,
		Daily:  daily,
	}
}

func TestWeatherService_CurrentFallsBackToMock(t *testing.T) {
	upstream := &StubRepository{name: "openweather", err: repositories.ErrRateLimited}
	svc := weather.NewWeatherService(upstream, newMock(), logger.NewNop())

	resp := svc.Process(context.Background(), protocol.NewCurrentRequest("Hanoi"))

	require.True(t, resp.Success)
	require.NotNil(t, resp.Current)
	assert.Equal(t, 1, upstream.callCount)
	assert.Len(t, resp.Current.Hourly, 48)
	assert.Len(t, resp.Current.Daily, 7)
	assert.Equal(t, "Hanoi", resp.Current.City)
	assert.Equal(t, "Asia/Ho_Chi_Minh", resp.Current.Timezone)
	h := resp.Current.Current.Humidity
	assert.True(t, h >= 0 && h <= 100, "humidity %d", h)
	require.NotNil(t, resp.Current.Current.TempRange)
	assert.LessOrEqual(t, resp.Current.Current.TempRange.Min, resp.Current.Current.TempRange.Max)
}

func TestWeatherService_NilUpstreamServesMock(t *testing.T) {
	svc := weather.NewWeatherService(nil, newMock(), logger.NewNop())

	resp := svc.Process(context.Background(), protocol.NewCurrentRequest("Unknown City"))

	require.True(t, resp.Success)
	assert.Len(t, resp.Current.Daily, 7)
}

func TestWeatherService_UpstreamWithoutCurrentFallsBack(t *testing.T) {
	upstream := &StubRepository{name: "openweather", forecast: &models.Forecast{Timezone: "X"}}
	svc := weather.NewWeatherService(upstream, newMock(), logger.NewNop())

	resp := svc.Process(context.Background(), protocol.NewCurrentRequest("Tokyo"))

	require.True(t, resp.Success)
	assert.Equal(t, "Asia/Tokyo", resp.Current.Timezone)
}

func TestWeatherService_CurrentSanitizesUpstream(t *testing.T) {
	upstream := &StubRepository{name: "openweather", forecast: dirtyForecast()}
	fallback := &StubRepository{name: "mock", err: errors.New("must not be called")}
	svc := weather.NewWeatherService(upstream, fallback, logger.NewNop())

	resp := svc.Process(context.Background(), protocol.NewCurrentRequest("Paris"))

	require.True(t, resp.Success, resp.Error)
	assert.Zero(t, fallback.callCount)

	cur := resp.Current.Current
	assert.Equal(t, protocol.Int(100), cur.Humidity)
	assert.Equal(t, protocol.Float(0), cur.Uvi)
	assert.Equal(t, protocol.Int(0), cur.Visibility)
	assert.Equal(t, protocol.Int(5), cur.WindDeg)
	assert.Nil(t, cur.WindGust)
	assert.Equal(t, protocol.Float(18), cur.TempRange.Min)
	assert.Equal(t, protocol.Float(30), cur.TempRange.Max)

	assert.Len(t, resp.Current.Hourly, 48)
	for _, h := range resp.Current.Hourly {
		assert.Equal(t, protocol.Float(1), h.Pop)
		assert.Equal(t, "Rain", h.Weather.Main)
		assert.Empty(t, h.Weather.Description)
	}

	assert.Len(t, resp.Current.Daily, 7)
	for _, d := range resp.Current.Daily {
		assert.Equal(t, protocol.Float(0), d.Pop)
		assert.Equal(t, protocol.Int(0), d.Humidity)
		assert.LessOrEqual(t, d.TempMin, d.TempMax)
		assert.Equal(t, "overcast clouds", d.Weather.Description)
	}
}

func TestWeatherService_DayDetail(t *testing.T) {
	svc := weather.NewWeatherService(nil, newMock(), logger.NewNop())
	todayStart := models.DayStart(fixedNow.Unix())

	resp := svc.Process(context.Background(), protocol.NewDayDetailRequest("Tokyo", todayStart+5*3600))

	require.True(t, resp.Success, resp.Error)
	require.NotNil(t, resp.Detail)
	assert.Equal(t, todayStart, models.DayStart(int64(resp.Detail.Day.Timestamp)))
	assert.NotEmpty(t, resp.Detail.Hourly)
	for _, h := range resp.Detail.Hourly {
		ts := int64(h.Timestamp)
		assert.True(t, ts >= todayStart && ts < todayStart+models.SecondsPerDay)
		assert.Empty(t, h.Weather.Main)
		assert.NotEmpty(t, h.Weather.Icon)
	}
	require.NotNil(t, resp.Detail.Today)
	assert.Equal(t, resp.Detail.Day.TempAvg, resp.Detail.Today.TempAvg)
}

func TestWeatherService_DayDetailTodayAtAnyHour(t *testing.T) {
	clocks := []time.Time{
		time.Date(2026, 10, 17, 0, 30, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 16, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC),
	}

	for _, now := range clocks {
		mock := repositories.NewMockRepository(repositories.DefaultProfiles(), 11, logger.NewNop(),
			repositories.WithClock(func() time.Time { return now }))
		svc := weather.NewWeatherService(nil, mock, logger.NewNop())
		todayStart := models.DayStart(now.Unix())

		for _, city := range []string{"Tokyo", "Sydney", "Hanoi", "New York", "Los Angeles"} {
			t.Run(now.Format("15:04")+"/"+city, func(t *testing.T) {
				resp := svc.Process(context.Background(), protocol.NewDayDetailRequest(city, todayStart))

				require.True(t, resp.Success, resp.Error)
				assert.Equal(t, todayStart, models.DayStart(int64(resp.Detail.Day.Timestamp)))
				assert.NotEmpty(t, resp.Detail.Hourly)
				require.NotNil(t, resp.Detail.Today)
				assert.Equal(t, resp.Detail.Day.TempAvg, resp.Detail.Today.TempAvg)

				current := svc.Process(context.Background(), protocol.NewCurrentRequest(city))
				require.True(t, current.Success, current.Error)
				assert.Equal(t, todayStart, models.DayStart(int64(current.Current.Daily[0].Timestamp)))
			})
		}
	}
}

func TestWeatherService_DayDetailUpstream(t *testing.T) {
	upstream := &StubRepository{name: "openweather", forecast: dirtyForecast()}
	svc := weather.NewWeatherService(upstream, newMock(), logger.NewNop())

	resp := svc.Process(context.Background(), protocol.NewDayDetailRequest("Paris", 1792195200+86400))

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, protocol.Int(1792195200+86400+43200), resp.Detail.Day.Timestamp)
	assert.Equal(t, protocol.Float(18), resp.Detail.Day.TempMin)
	assert.Equal(t, protocol.Float(30), resp.Detail.Day.TempMax)
	assert.Equal(t, protocol.Float(25), resp.Detail.Day.TempAvg)
	assert.Empty(t, resp.Detail.Day.Weather.Description)
	assert.Len(t, resp.Detail.Hourly, 24)
	for _, h := range resp.Detail.Hourly {
		assert.Equal(t, protocol.Int(100), h.Humidity)
	}
}

func TestWeatherService_DayNotFound(t *testing.T) {
	svc := weather.NewWeatherService(nil, newMock(), logger.NewNop())
	farFuture := fixedNow.Add(30 * 24 * time.Hour).Unix()

	resp := svc.Process(context.Background(), protocol.NewDayDetailRequest("Tokyo", farFuture))

	assert.False(t, resp.Success)
	assert.Equal(t, weather.ErrDayNotFound.Error(), resp.Error)
	assert.Nil(t, resp.Detail)

	_, err := svc.DayDetail(context.Background(), "Tokyo", farFuture)
	assert.ErrorIs(t, err, weather.ErrDayNotFound)
}

func TestWeatherService_InvalidRequests(t *testing.T) {
	upstream := &StubRepository{name: "openweather", forecast: dirtyForecast()}
	svc := weather.NewWeatherService(upstream, newMock(), logger.NewNop())

	tests := []struct {
		name    string
		req     protocol.Request
		message string
	}{
		{"unknown type", protocol.Request{Type: "BOGUS", City: "X"}, "Unknown request type: BOGUS"},
		{"missing type", protocol.Request{City: "X"}, "type is required"},
		{"missing city", protocol.Request{Type: protocol.RequestCurrent, City: "  "}, "city is required"},
		{"missing day", protocol.Request{Type: protocol.RequestDetailDay, City: "X"}, "Day timestamp is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := svc.Process(context.Background(), tt.req)
			assert.False(t, resp.Success)
			assert.True(t, strings.Contains(resp.Error, tt.message), resp.Error)
		})
	}
	assert.Zero(t, upstream.callCount)
}

func TestWeatherService_FallbackFailureSurfaces(t *testing.T) {
	upstream := &StubRepository{name: "openweather", err: repositories.ErrInvalidAPIKey}
	fallback := &StubRepository{name: "broken", err: errors.New("generator exploded")}
	svc := weather.NewWeatherService(upstream, fallback, logger.NewNop())

	_, err := svc.CurrentWeather(context.Background(), "Rome")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator exploded")
}
