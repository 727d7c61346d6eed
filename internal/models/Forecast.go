package models

import "fmt"

// Forecast is the full one-call weather model as served by the upstream
// provider (or synthesized by the mock generator).
type Forecast struct {
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	Timezone       string   `json:"timezone"`
	TimezoneOffset int      `json:"timezone_offset"`
	Current        *Current `json:"current"`
	Hourly         []Hourly `json:"hourly"`
	Daily          []Daily  `json:"daily"`
}

func (f *Forecast) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f tz: %s", f.Lat, f.Lon, f.Timezone)
}

// Today returns the first daily entry, if any.
func (f *Forecast) Today() (Daily, bool) {
	if len(f.Daily) == 0 {
		return Daily{}, false
	}
	return f.Daily[0], true
}

type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// FirstCondition returns the leading condition or a zero value.
func FirstCondition(conds []Condition) (Condition, bool) {
	if len(conds) == 0 {
		return Condition{}, false
	}
	return conds[0], true
}

type Current struct {
	Timestamp  int64       `json:"dt"`
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	Humidity   int         `json:"humidity"`
	Pressure   float64     `json:"pressure"`
	Uvi        float64     `json:"uvi"`
	Visibility int         `json:"visibility"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    int         `json:"wind_deg"`
	WindGust   *float64    `json:"wind_gust,omitempty"`
	Weather    []Condition `json:"weather"`
}

type Hourly struct {
	Timestamp int64       `json:"dt"`
	Temp      float64     `json:"temp"`
	FeelsLike float64     `json:"feels_like"`
	Humidity  int         `json:"humidity"`
	Pressure  float64     `json:"pressure"`
	Uvi       float64     `json:"uvi"`
	WindSpeed float64     `json:"wind_speed"`
	WindDeg   int         `json:"wind_deg"`
	WindGust  *float64    `json:"wind_gust,omitempty"`
	Pop       float64     `json:"pop"`
	Weather   []Condition `json:"weather"`
}

type DailyTemp struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type DailyFeelsLike struct {
	Day   float64 `json:"day"`
	Night float64 `json:"night"`
	Eve   float64 `json:"eve"`
	Morn  float64 `json:"morn"`
}

type Daily struct {
	Timestamp int64          `json:"dt"`
	Temp      DailyTemp      `json:"temp"`
	FeelsLike DailyFeelsLike `json:"feels_like"`
	Humidity  int            `json:"humidity"`
	Pressure  float64        `json:"pressure"`
	Uvi       float64        `json:"uvi"`
	WindSpeed float64        `json:"wind_speed"`
	WindDeg   int            `json:"wind_deg"`
	Pop       float64        `json:"pop"`
	Rain      *float64       `json:"rain,omitempty"`
	Weather   []Condition    `json:"weather"`
}

// RainTotal returns the precipitation amount in mm, 0 when absent.
func (d Daily) RainTotal() float64 {
	if d.Rain == nil {
		return 0
	}
	return *d.Rain
}
