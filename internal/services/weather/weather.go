package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"weather-udp/internal/models"
	"weather-udp/internal/protocol"
	"weather-udp/internal/repositories"
	"weather-udp/pkg/logger"
)

const (
	currentHourlyLimit = 48
	currentDailyLimit  = 7
)

// Errors surfaced to clients with success=false. Upstream failures never
// reach this far, they are replaced by mock data.
var (
	ErrInvalidRequest     = errors.New("Invalid request")
	ErrUnknownRequestType = errors.New("Unknown request type")
	ErrDayNotFound        = errors.New("Day not found in forecast")
)

// WeatherService represents the weather service.
type WeatherService struct {
	upstream repositories.WeatherRepository
	fallback repositories.WeatherRepository
	l        *logger.Logger
}

// NewWeatherService wires the upstream gateway with its fallback. A nil
// upstream means every request is served from the fallback.
func NewWeatherService(upstream, fallback repositories.WeatherRepository, l *logger.Logger) *WeatherService {
	return &WeatherService{
		upstream: upstream,
		fallback: fallback,
		l:        l,
	}
}

// Process answers one decoded request. It never fails: errors become
// success=false envelopes.
func (s *WeatherService) Process(ctx context.Context, req protocol.Request) protocol.Response {
	if err := validate(req); err != nil {
		s.l.Debug("rejected request", map[string]any{"type": req.Type, "city": req.City, "error": err})
		return protocol.NewErrorResponse(err.Error())
	}

	switch req.Type {
	case protocol.RequestCurrent:
		payload, err := s.CurrentWeather(ctx, req.City)
		if err != nil {
			return protocol.NewErrorResponse(err.Error())
		}
		return protocol.NewCurrentResponse(payload)
	default:
		payload, err := s.DayDetail(ctx, req.City, *req.DayTimestamp)
		if err != nil {
			return protocol.NewErrorResponse(err.Error())
		}
		return protocol.NewDayDetailResponse(payload)
	}
}

func validate(req protocol.Request) error {
	if req.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidRequest)
	}
	if !req.Type.Known() {
		return fmt.Errorf("%w: %s", ErrUnknownRequestType, req.Type)
	}
	if strings.TrimSpace(req.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidRequest)
	}
	if req.Type == protocol.RequestDetailDay && req.DayTimestamp == nil {
		return fmt.Errorf("%w: Day timestamp is required", ErrInvalidRequest)
	}
	return nil
}

// CurrentWeather returns the trimmed current conditions with the next 48
// hours and 7 days.
func (s *WeatherService) CurrentWeather(ctx context.Context, city string) (*protocol.CurrentPayload, error) {
	forecast, err := s.forecast(ctx, city)
	if err != nil {
		return nil, err
	}

	payload := &protocol.CurrentPayload{
		Current:  currentFrom(forecast.Current),
		Hourly:   make([]protocol.HourlyEntry, 0, currentHourlyLimit),
		Daily:    make([]protocol.DailyEntry, 0, currentDailyLimit),
		City:     strings.TrimSpace(city),
		Timezone: forecast.Timezone,
	}

	for _, h := range forecast.Hourly[:min(len(forecast.Hourly), currentHourlyLimit)] {
		payload.Hourly = append(payload.Hourly, protocol.HourlyEntry{
			Timestamp: protocol.Int(h.Timestamp),
			Temp:      protocol.Float(h.Temp),
			Pop:       protocol.Float(models.ClampUnit(h.Pop)),
			Weather:   condition(h.Weather, false),
		})
	}

	for _, d := range forecast.Daily[:min(len(forecast.Daily), currentDailyLimit)] {
		lo, hi := models.OrderRange(d.Temp.Min, d.Temp.Max)
		payload.Daily = append(payload.Daily, protocol.DailyEntry{
			Timestamp: protocol.Int(d.Timestamp),
			TempMin:   protocol.Float(lo),
			TempMax:   protocol.Float(hi),
			Pop:       protocol.Float(models.ClampUnit(d.Pop)),
			Humidity:  protocol.Int(models.ClampHumidity(d.Humidity)),
			Weather:   condition(d.Weather, true),
			Rain:      protocol.Float(models.NonNegative(d.RainTotal())),
		})
	}

	if today, ok := forecast.Today(); ok {
		lo, hi := models.OrderRange(today.Temp.Min, today.Temp.Max)
		payload.Current.TempRange = &protocol.TempRange{Min: protocol.Float(lo), Max: protocol.Float(hi)}
	}

	return payload, nil
}

// DayDetail returns the stats and hourly entries of the UTC day containing
// dayTimestamp, plus a snapshot of today for comparison.
func (s *WeatherService) DayDetail(ctx context.Context, city string, dayTimestamp int64) (*protocol.DayDetailPayload, error) {
	forecast, err := s.forecast(ctx, city)
	if err != nil {
		return nil, err
	}

	idx := models.FilterByDay(forecast.Daily, dayTimestamp)
	if idx < 0 {
		s.l.Info("requested day outside forecast window", map[string]any{"city": city, "dayTimestamp": dayTimestamp})
		return nil, ErrDayNotFound
	}

	d := forecast.Daily[idx]
	lo, hi := models.OrderRange(d.Temp.Min, d.Temp.Max)
	payload := &protocol.DayDetailPayload{
		Day: &protocol.DayData{
			Timestamp: protocol.Int(d.Timestamp),
			TempMin:   protocol.Float(lo),
			TempMax:   protocol.Float(hi),
			TempAvg:   protocol.Float(d.Temp.Day),
			Humidity:  protocol.Int(models.ClampHumidity(d.Humidity)),
			Pop:       protocol.Float(models.ClampUnit(d.Pop)),
			Rain:      protocol.Float(models.NonNegative(d.RainTotal())),
			Weather:   condition(d.Weather, false),
		},
		Hourly: make([]protocol.DetailHourly, 0, 24),
	}

	start := models.DayStart(dayTimestamp)
	for _, h := range models.HourlyWithin(forecast.Hourly, start, start+models.SecondsPerDay) {
		entry := protocol.DetailHourly{
			Timestamp: protocol.Int(h.Timestamp),
			Temp:      protocol.Float(h.Temp),
			Pop:       protocol.Float(models.ClampUnit(h.Pop)),
			Humidity:  protocol.Int(models.ClampHumidity(h.Humidity)),
		}
		if c, ok := models.FirstCondition(h.Weather); ok {
			entry.Weather = &protocol.Condition{Icon: c.Icon}
		}
		payload.Hourly = append(payload.Hourly, entry)
	}

	if today, ok := forecast.Today(); ok {
		payload.Today = &protocol.TodayData{
			TempAvg:  protocol.Float(today.Temp.Day),
			Humidity: protocol.Int(models.ClampHumidity(today.Humidity)),
			Rain:     protocol.Float(models.NonNegative(today.RainTotal())),
		}
	}

	return payload, nil
}

// forecast fetches from upstream and silently degrades to the fallback on
// any failure.
func (s *WeatherService) forecast(ctx context.Context, city string) (*models.Forecast, error) {
	if s.upstream != nil {
		forecast, err := s.upstream.FetchWeather(ctx, city)
		if err == nil {
			err = usable(forecast)
		}
		if err == nil {
			s.l.Debug("served upstream forecast", map[string]any{"repo": s.upstream.Name(), "city": city})
			return forecast, nil
		}
		s.l.Warning("upstream fetch failed, using mock data", map[string]any{
			"repo":  s.upstream.Name(),
			"city":  city,
			"error": err,
		})
	}

	forecast, err := s.fallback.FetchWeather(ctx, city)
	if err != nil {
		return nil, errors.Wrapf(err, "fallback %s", s.fallback.Name())
	}
	if err := usable(forecast); err != nil {
		return nil, errors.Wrapf(err, "fallback %s", s.fallback.Name())
	}

	return forecast, nil
}

func usable(f *models.Forecast) error {
	if f == nil || f.Current == nil {
		return fmt.Errorf("%w: forecast has no current conditions", repositories.ErrParse)
	}
	return nil
}

func currentFrom(c *models.Current) *protocol.CurrentWeather {
	return &protocol.CurrentWeather{
		Temp:       protocol.Float(c.Temp),
		FeelsLike:  protocol.Float(c.FeelsLike),
		Humidity:   protocol.Int(models.ClampHumidity(c.Humidity)),
		Pressure:   protocol.Float(c.Pressure),
		WindSpeed:  protocol.Float(c.WindSpeed),
		WindDeg:    protocol.Int(models.NormalizeWindDeg(c.WindDeg)),
		WindGust:   protocol.FloatPtr(c.WindGust),
		Timestamp:  protocol.Int(c.Timestamp),
		Uvi:        protocol.Float(models.NonNegative(c.Uvi)),
		Visibility: protocol.Int(max(c.Visibility, 0)),
		Weather:    condition(c.Weather, true),
	}
}

func condition(conds []models.Condition, withDescription bool) *protocol.Condition {
	c, ok := models.FirstCondition(conds)
	if !ok {
		return nil
	}
	out := &protocol.Condition{Main: c.Main, Icon: c.Icon}
	if withDescription {
		out.Description = c.Description
	}
	return out
}
