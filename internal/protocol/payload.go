package protocol

// Condition is the trimmed weather condition. Each message kind fills only
// the fields it needs.
type Condition struct {
	Main        string `json:"main,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type TempRange struct {
	Min Float `json:"min"`
	Max Float `json:"max"`
}

type CurrentWeather struct {
	Temp       Float      `json:"temp"`
	FeelsLike  Float      `json:"feelsLike"`
	Humidity   Int        `json:"humidity"`
	Pressure   Float      `json:"pressure"`
	WindSpeed  Float      `json:"windSpeed"`
	WindDeg    Int        `json:"windDeg"`
	WindGust   *Float     `json:"windGust"`
	Timestamp  Int        `json:"timestamp"`
	Uvi        Float      `json:"uvi"`
	Visibility Int        `json:"visibility"`
	Weather    *Condition `json:"weather,omitempty"`
	TempRange  *TempRange `json:"tempRange,omitempty"`
}

type HourlyEntry struct {
	Timestamp Int        `json:"timestamp"`
	Temp      Float      `json:"temp"`
	Pop       Float      `json:"pop"`
	Weather   *Condition `json:"weather,omitempty"`
}

type DailyEntry struct {
	Timestamp Int        `json:"timestamp"`
	TempMin   Float      `json:"tempMin"`
	TempMax   Float      `json:"tempMax"`
	Pop       Float      `json:"pop"`
	Humidity  Int        `json:"humidity"`
	Weather   *Condition `json:"weather,omitempty"`
	Rain      Float      `json:"rain"`
}

// CurrentPayload answers a CURRENT request.
type CurrentPayload struct {
	Current  *CurrentWeather `json:"current"`
	Hourly   []HourlyEntry   `json:"hourly"`
	Daily    []DailyEntry    `json:"daily"`
	City     string          `json:"city"`
	Timezone string          `json:"timezone"`
}

type DayData struct {
	Timestamp Int        `json:"timestamp"`
	TempMin   Float      `json:"tempMin"`
	TempMax   Float      `json:"tempMax"`
	TempAvg   Float      `json:"tempAvg"`
	Humidity  Int        `json:"humidity"`
	Pop       Float      `json:"pop"`
	Rain      Float      `json:"rain"`
	Weather   *Condition `json:"weather,omitempty"`
}

type DetailHourly struct {
	Timestamp Int        `json:"timestamp"`
	Temp      Float      `json:"temp"`
	Pop       Float      `json:"pop"`
	Humidity  Int        `json:"humidity"`
	Weather   *Condition `json:"weather,omitempty"`
}

type TodayData struct {
	TempAvg  Float `json:"tempAvg"`
	Humidity Int   `json:"humidity"`
	Rain     Float `json:"rain"`
}

// DayDetailPayload answers a DETAIL_DAY request.
type DayDetailPayload struct {
	Day    *DayData       `json:"day"`
	Hourly []DetailHourly `json:"hourly"`
	Today  *TodayData     `json:"today"`
}
