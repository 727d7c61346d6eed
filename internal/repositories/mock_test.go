package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-udp/internal/models"
	"weather-udp/pkg/logger"
)

// 2026-10-17 06:00 UTC
var fixedNow = time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)

func newTestMock(seed int64) *MockRepository {
	return NewMockRepository(DefaultProfiles(), seed, logger.NewNop(), WithClock(func() time.Time { return fixedNow }))
}

func TestMockRepository_Shape(t *testing.T) {
	m := newTestMock(42)

	for _, city := range []string{"Hanoi", "Tokyo", "new york", "Los Angeles", "Sydney", "Nowhere-on-earth"} {
		f, err := m.FetchWeather(context.Background(), city)
		require.NoError(t, err, city)

		require.NotNil(t, f.Current, city)
		assert.Len(t, f.Hourly, MockHourlyEntries, city)
		assert.Len(t, f.Daily, MockDailyEntries, city)
		assert.Equal(t, fixedNow.Unix(), f.Current.Timestamp)
		assert.NotEmpty(t, f.Current.Weather)

		for i := 1; i < len(f.Hourly); i++ {
			assert.Equal(t, int64(3600), f.Hourly[i].Timestamp-f.Hourly[i-1].Timestamp)
		}
		for i := 1; i < len(f.Daily); i++ {
			assert.Equal(t, int64(models.SecondsPerDay), f.Daily[i].Timestamp-f.Daily[i-1].Timestamp)
		}
		for _, d := range f.Daily {
			assert.LessOrEqual(t, d.Temp.Min, d.Temp.Max)
			if d.Pop > 0.5 {
				require.NotNil(t, d.Rain)
				assert.GreaterOrEqual(t, *d.Rain, 1.5)
			} else {
				assert.Nil(t, d.Rain)
			}
		}
		for _, h := range f.Hourly {
			assert.GreaterOrEqual(t, h.Pop, 0.0)
			assert.LessOrEqual(t, h.Pop, 1.0)
		}
	}
}

func TestMockRepository_UnknownCityUsesDefaultProfile(t *testing.T) {
	f, err := newTestMock(1).FetchWeather(context.Background(), "Atlantis")
	require.NoError(t, err)

	assert.Equal(t, "Asia/Ho_Chi_Minh", f.Timezone)
	assert.Equal(t, 21.0285, f.Lat)
}

func TestMockRepository_DailyAnchoredToUTCToday(t *testing.T) {
	clocks := []time.Time{
		time.Date(2026, 10, 17, 0, 30, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 16, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC),
	}
	noon := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC).Unix()

	for _, now := range clocks {
		m := NewMockRepository(DefaultProfiles(), 7, logger.NewNop(), WithClock(func() time.Time { return now }))
		for _, city := range []string{"Tokyo", "Sydney", "Hanoi", "London", "New York", "Los Angeles"} {
			t.Run(now.Format("15:04")+"/"+city, func(t *testing.T) {
				f, err := m.FetchWeather(context.Background(), city)
				require.NoError(t, err)

				assert.Equal(t, noon, f.Daily[0].Timestamp)
				assert.Equal(t, 0, models.FilterByDay(f.Daily, models.DayStart(now.Unix())))
			})
		}
	}
}

func TestMockRepository_NightHoursHaveNoUV(t *testing.T) {
	f, err := newTestMock(3).FetchWeather(context.Background(), "London")
	require.NoError(t, err)

	for _, h := range f.Hourly {
		hour := localHour(h.Timestamp, 0)
		if hour < 6 || hour > 18 {
			assert.Zero(t, h.Uvi, "hour %d", hour)
			assert.Equal(t, byte('n'), h.Weather[0].Icon[2])
		}
	}
}

func TestMockRepository_SeedIsDeterministic(t *testing.T) {
	a, err := newTestMock(99).FetchWeather(context.Background(), "Paris")
	require.NoError(t, err)
	b, err := newTestMock(99).FetchWeather(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestMockRepository_ConcurrentUse(t *testing.T) {
	m := newTestMock(5)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f, err := m.FetchWeather(context.Background(), "Seoul")
			assert.NoError(t, err)
			assert.Len(t, f.Hourly, MockHourlyEntries)
		}()
	}
	wg.Wait()
}

func TestProfileTable_Lookup(t *testing.T) {
	table := DefaultProfiles()

	key, p := table.Lookup("  HÀ NỘI ")
	assert.Equal(t, "hà nội", key)
	assert.Equal(t, 28.0, p.BaseTemp)

	key, _ = table.Lookup("Greater London")
	assert.Equal(t, "london", key)

	key, _ = table.Lookup("tok")
	assert.Equal(t, "tokyo", key)

	key, _ = table.Lookup("")
	assert.Equal(t, defaultProfileKey, key)

	key, _ = table.Lookup("zzz")
	assert.Equal(t, defaultProfileKey, key)
}

func TestProfileTable_MergeLeavesOriginalUntouched(t *testing.T) {
	base := DefaultProfiles()
	before := base.Len()

	merged := base.Merge(map[string]CityProfile{
		"Reykjavik": {BaseTemp: 4, TempRange: 6, Humidity: 80, Timezone: "Atlantic/Reykjavik", Lat: 64.1466, Lon: -21.9426},
	})

	key, p := merged.Lookup("reykjavik")
	assert.Equal(t, "reykjavik", key)
	assert.Equal(t, 4.0, p.BaseTemp)
	assert.Equal(t, before+1, merged.Len())
	assert.Equal(t, before, base.Len())

	key, _ = base.Lookup("reykjavik")
	assert.Equal(t, defaultProfileKey, key)
}
