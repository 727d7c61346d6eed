package client

import (
	"fmt"
	"math"

	"weather-udp/internal/models"
	"weather-udp/internal/protocol"
)

type Condition struct {
	Main        string
	Description string
	Icon        string
}

type CurrentConditions struct {
	Temp       float64
	FeelsLike  float64
	Humidity   int
	Pressure   float64
	WindSpeed  float64
	WindDeg    int
	WindGust   *float64
	Timestamp  int64
	Uvi        float64
	Visibility int
	Weather    Condition
	TempMin    float64
	TempMax    float64
}

type HourlyForecast struct {
	Timestamp int64
	Temp      float64
	Pop       float64
	Weather   Condition
}

type DailyForecast struct {
	Timestamp int64
	TempMin   float64
	TempMax   float64
	Pop       float64
	Humidity  int
	Rain      float64
	Weather   Condition
}

// WeatherData is the validated form of a CURRENT answer.
type WeatherData struct {
	City     string
	Timezone string
	Current  CurrentConditions
	Hourly   []HourlyForecast
	Daily    []DailyForecast
}

type DaySummary struct {
	Timestamp int64
	TempMin   float64
	TempMax   float64
	TempAvg   float64
	Humidity  int
	Pop       float64
	Rain      float64
	Weather   Condition
}

type HourDetail struct {
	Timestamp int64
	Temp      float64
	Pop       float64
	Humidity  int
	Icon      string
}

type TodaySummary struct {
	TempAvg  float64
	Humidity int
	Rain     float64
}

// DayDetail is the validated form of a DETAIL_DAY answer. Today is nil
// when the server sent no comparison snapshot.
type DayDetail struct {
	Day    DaySummary
	Hourly []HourDetail
	Today  *TodaySummary
}

// NewWeatherData validates a wire payload: values are clamped into range,
// inverted min/max pairs swapped and unusable rows dropped.
func NewWeatherData(p *protocol.CurrentPayload) (*WeatherData, error) {
	if p == nil || p.Current == nil {
		return nil, fmt.Errorf("%w: response has no current weather", protocol.ErrInvalidFormat)
	}

	cur := p.Current
	wd := &WeatherData{
		City:     p.City,
		Timezone: p.Timezone,
		Current: CurrentConditions{
			Temp:       float64(cur.Temp),
			FeelsLike:  float64(cur.FeelsLike),
			Humidity:   models.ClampHumidity(int(cur.Humidity)),
			Pressure:   float64(cur.Pressure),
			WindSpeed:  models.NonNegative(float64(cur.WindSpeed)),
			WindDeg:    models.NormalizeWindDeg(int(cur.WindDeg)),
			WindGust:   cur.WindGust.Ptr(),
			Timestamp:  int64(cur.Timestamp),
			Uvi:        models.NonNegative(float64(cur.Uvi)),
			Visibility: max(int(cur.Visibility), 0),
			Weather:    conditionOf(cur.Weather),
		},
		Hourly: make([]HourlyForecast, 0, len(p.Hourly)),
		Daily:  make([]DailyForecast, 0, len(p.Daily)),
	}
	if cur.TempRange != nil {
		wd.Current.TempMin, wd.Current.TempMax = models.OrderRange(float64(cur.TempRange.Min), float64(cur.TempRange.Max))
	}

	for _, h := range p.Hourly {
		temp, pop := float64(h.Temp), float64(h.Pop)
		if h.Timestamp <= 0 || math.IsNaN(temp) || math.IsNaN(pop) {
			continue
		}
		wd.Hourly = append(wd.Hourly, HourlyForecast{
			Timestamp: int64(h.Timestamp),
			Temp:      temp,
			Pop:       models.ClampUnit(pop),
			Weather:   conditionOf(h.Weather),
		})
	}

	for _, d := range p.Daily {
		lo, hi := float64(d.TempMin), float64(d.TempMax)
		if d.Timestamp <= 0 || math.IsNaN(lo) || math.IsNaN(hi) {
			continue
		}
		lo, hi = models.OrderRange(lo, hi)
		wd.Daily = append(wd.Daily, DailyForecast{
			Timestamp: int64(d.Timestamp),
			TempMin:   lo,
			TempMax:   hi,
			Pop:       models.ClampUnit(float64(d.Pop)),
			Humidity:  models.ClampHumidity(int(d.Humidity)),
			Rain:      models.NonNegative(float64(d.Rain)),
			Weather:   conditionOf(d.Weather),
		})
	}

	return wd, nil
}

func NewDayDetail(p *protocol.DayDetailPayload) (*DayDetail, error) {
	if p == nil || p.Day == nil {
		return nil, fmt.Errorf("%w: response has no day data", protocol.ErrInvalidFormat)
	}

	lo, hi := models.OrderRange(float64(p.Day.TempMin), float64(p.Day.TempMax))
	dd := &DayDetail{
		Day: DaySummary{
			Timestamp: int64(p.Day.Timestamp),
			TempMin:   lo,
			TempMax:   hi,
			TempAvg:   float64(p.Day.TempAvg),
			Humidity:  models.ClampHumidity(int(p.Day.Humidity)),
			Pop:       models.ClampUnit(float64(p.Day.Pop)),
			Rain:      models.NonNegative(float64(p.Day.Rain)),
			Weather:   conditionOf(p.Day.Weather),
		},
		Hourly: make([]HourDetail, 0, len(p.Hourly)),
	}

	for _, h := range p.Hourly {
		temp, pop := float64(h.Temp), float64(h.Pop)
		if h.Timestamp <= 0 || math.IsNaN(temp) || math.IsNaN(pop) {
			continue
		}
		entry := HourDetail{
			Timestamp: int64(h.Timestamp),
			Temp:      temp,
			Pop:       models.ClampUnit(pop),
			Humidity:  models.ClampHumidity(int(h.Humidity)),
		}
		if h.Weather != nil {
			entry.Icon = h.Weather.Icon
		}
		dd.Hourly = append(dd.Hourly, entry)
	}

	if p.Today != nil {
		dd.Today = &TodaySummary{
			TempAvg:  float64(p.Today.TempAvg),
			Humidity: models.ClampHumidity(int(p.Today.Humidity)),
			Rain:     models.NonNegative(float64(p.Today.Rain)),
		}
	}

	return dd, nil
}

func conditionOf(c *protocol.Condition) Condition {
	if c == nil {
		return Condition{}
	}
	return Condition{Main: c.Main, Description: c.Description, Icon: c.Icon}
}
