package repositories

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"weather-udp/internal/models"
	"weather-udp/pkg/logger"
)

const (
	MockHourlyEntries = 48
	MockDailyEntries  = 7
)

// MockRepository synthesizes a complete forecast from a city profile. It
// stands in for the upstream provider whenever that one fails.
type MockRepository struct {
	profiles *ProfileTable
	now      func() time.Time

	mu    sync.Mutex
	faker *gofakeit.Faker

	l *logger.Logger
}

type MockOption func(*MockRepository)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockRepository) {
		m.now = now
	}
}

// NewMockRepository creates a generator. A zero seed picks a random one.
func NewMockRepository(profiles *ProfileTable, seed int64, l *logger.Logger, opts ...MockOption) *MockRepository {
	if profiles == nil {
		profiles = DefaultProfiles()
	}
	m := &MockRepository{
		profiles: profiles,
		now:      time.Now,
		faker:    gofakeit.New(uint64(seed)),
		l:        l,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockRepository) Name() string {
	return "mock"
}

func (m *MockRepository) FetchWeather(_ context.Context, city string) (*models.Forecast, error) {
	key, p := m.profiles.Lookup(city)
	now := m.now().Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	forecast := &models.Forecast{
		Lat:            p.Lat,
		Lon:            p.Lon,
		Timezone:       p.Timezone,
		TimezoneOffset: p.UTCOffset,
		Current:        m.current(p, now),
		Hourly:         m.hourly(p, now),
		Daily:          m.daily(p, now),
	}

	m.l.Debug("generated mock forecast", map[string]any{
		"city":    city,
		"profile": key,
		"params":  forecast.RequestParams(),
	})

	return forecast, nil
}

func (m *MockRepository) rnd() float64 {
	return m.faker.Float64()
}

func (m *MockRepository) current(p CityProfile, now int64) *models.Current {
	temp := p.BaseTemp + m.rnd()*p.TempRange - p.TempRange/2
	gust := 3 + m.rnd()*4

	c := &models.Current{
		Timestamp:  now,
		Temp:       temp,
		FeelsLike:  temp + 2 + m.rnd()*3,
		Humidity:   p.Humidity + int(m.rnd()*15) - 7,
		Pressure:   1010 + m.rnd()*20,
		Uvi:        5 + m.rnd()*4,
		Visibility: 8000 + int(m.rnd()*5000),
		WindSpeed:  2 + m.rnd()*5,
		WindDeg:    int(m.rnd() * 360),
		WindGust:   &gust,
	}

	switch draw := m.rnd(); {
	case draw > 0.7:
		c.Weather = []models.Condition{{ID: 500, Main: "Rain", Description: "moderate rain", Icon: "10d"}}
	case draw > 0.5:
		c.Weather = []models.Condition{{ID: 801, Main: "Clouds", Description: "few clouds", Icon: "02d"}}
	default:
		c.Weather = []models.Condition{{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}}
	}

	return c
}

func (m *MockRepository) hourly(p CityProfile, now int64) []models.Hourly {
	start := now / 3600 * 3600
	basePop := 0.1
	if p.Humidity > 70 {
		basePop = 0.2
	}

	out := make([]models.Hourly, 0, MockHourlyEntries)
	for i := 0; i < MockHourlyEntries; i++ {
		ts := start + int64(i)*3600
		hour := localHour(ts, p.UTCOffset)
		daytime := hour >= 6 && hour < 18

		temp := p.BaseTemp + math.Sin(float64(hour)*math.Pi/12)*p.TempRange/2 + m.rnd()*3 - 1.5

		uvi := 0.0
		if hour >= 6 && hour <= 18 {
			uvi = 4 + m.rnd()*4
		}

		pop := basePop + m.rnd()*0.2
		if hour >= 12 && hour <= 20 {
			pop = basePop + m.rnd()*0.5
		}

		out = append(out, models.Hourly{
			Timestamp: ts,
			Temp:      temp,
			FeelsLike: temp + 1 + m.rnd()*2,
			Humidity:  p.Humidity + int(m.rnd()*10) - 5,
			Pressure:  1010 + m.rnd()*20,
			Uvi:       uvi,
			WindSpeed: 1 + m.rnd()*6,
			WindDeg:   int(m.rnd() * 360),
			Pop:       pop,
			Weather:   []models.Condition{conditionForPop(pop, daytime)},
		})
	}

	return out
}

func (m *MockRepository) daily(p CityProfile, now int64) []models.Daily {
	// day boundaries are UTC, matching DETAIL_DAY alignment
	noon := models.DayStart(now) + models.SecondsPerDay/2

	basePop := 0.15
	if p.Humidity > 70 {
		basePop = 0.3
	}

	out := make([]models.Daily, 0, MockDailyEntries)
	for i := 0; i < MockDailyEntries; i++ {
		dayTemp := p.BaseTemp + m.rnd()*p.TempRange - p.TempRange/2
		temp := models.DailyTemp{
			Day: dayTemp,
			Min: dayTemp - p.TempRange/2 - m.rnd()*3,
			Max: dayTemp + p.TempRange/2 + m.rnd()*2,
			Eve: dayTemp - 2 - m.rnd()*2,
		}
		temp.Night = temp.Min + m.rnd()*2
		temp.Morn = temp.Min + 3 + m.rnd()*2
		temp.Min, temp.Max = models.OrderRange(temp.Min, temp.Max)

		pop := basePop + m.rnd()*0.3
		if i == 2 || i == 4 || i == 6 {
			pop = basePop + 0.3 + m.rnd()*0.3
		}

		cond := conditionForPop(pop, true)
		if i == 1 || i == 5 {
			cond = models.Condition{ID: 801, Main: "Clouds", Description: "few clouds", Icon: "02d"}
		}

		d := models.Daily{
			Timestamp: noon + int64(i)*models.SecondsPerDay,
			Temp:      temp,
			FeelsLike: models.DailyFeelsLike{
				Day:   dayTemp + 2 + m.rnd()*2,
				Night: temp.Night - 1,
				Eve:   temp.Eve + 1,
				Morn:  temp.Morn + 1,
			},
			Humidity:  p.Humidity + int(m.rnd()*20) - 10,
			Pressure:  1008 + m.rnd()*15,
			Uvi:       3 + m.rnd()*7,
			WindSpeed: 2 + m.rnd()*6,
			WindDeg:   int(m.rnd() * 360),
			Pop:       pop,
			Weather:   []models.Condition{cond},
		}
		if pop > 0.5 {
			rain := 1.5 + m.rnd()*8
			d.Rain = &rain
		}

		out = append(out, d)
	}

	return out
}

func localHour(ts int64, offset int) int {
	h := ((ts + int64(offset)) / 3600) % 24
	if h < 0 {
		h += 24
	}
	return int(h)
}

func conditionForPop(pop float64, daytime bool) models.Condition {
	suffix := "n"
	if daytime {
		suffix = "d"
	}

	switch {
	case pop > 0.6:
		return models.Condition{ID: 500, Main: "Rain", Description: "light rain", Icon: "10" + suffix}
	case pop > 0.4:
		return models.Condition{ID: 802, Main: "Clouds", Description: "scattered clouds", Icon: "03" + suffix}
	case pop > 0.2:
		return models.Condition{ID: 801, Main: "Clouds", Description: "few clouds", Icon: "02" + suffix}
	default:
		return models.Condition{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01" + suffix}
	}
}
