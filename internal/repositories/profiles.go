package repositories

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

const defaultProfileKey = "hanoi"

// CityProfile holds the synthetic climate of one city.
type CityProfile struct {
	BaseTemp  float64
	TempRange float64
	Humidity  int
	Timezone  string
	Lat       float64
	Lon       float64
	UTCOffset int
}

// ProfileTable is read-only once built. Keys are lower-cased city names.
type ProfileTable struct {
	profiles map[string]CityProfile
	keys     []string
}

var (
	defaultTable     *ProfileTable
	defaultTableOnce sync.Once
)

// DefaultProfiles returns the built-in table, created on first use.
func DefaultProfiles() *ProfileTable {
	defaultTableOnce.Do(func() {
		defaultTable = NewProfileTable(builtinProfiles())
	})
	return defaultTable
}

func NewProfileTable(profiles map[string]CityProfile) *ProfileTable {
	t := &ProfileTable{profiles: make(map[string]CityProfile, len(profiles))}
	for name, p := range profiles {
		key := normalizeCity(name)
		if key == "" {
			continue
		}
		t.profiles[key] = p
	}
	t.keys = slices.Sorted(maps.Keys(t.profiles))
	return t
}

// Merge returns a new table with extra added on top of t.
func (t *ProfileTable) Merge(extra map[string]CityProfile) *ProfileTable {
	all := maps.Clone(t.profiles)
	for name, p := range extra {
		all[normalizeCity(name)] = p
	}
	return NewProfileTable(all)
}

func (t *ProfileTable) Len() int {
	return len(t.profiles)
}

// Lookup finds the profile for city: exact key first, then the first key
// (in sorted order) that contains the name or is contained in it, then the
// default city. The matched key is returned with the profile.
func (t *ProfileTable) Lookup(city string) (string, CityProfile) {
	name := normalizeCity(city)
	if name != "" {
		if p, ok := t.profiles[name]; ok {
			return name, p
		}
		for _, key := range t.keys {
			if strings.Contains(name, key) || strings.Contains(key, name) {
				return key, t.profiles[key]
			}
		}
	}

	if p, ok := t.profiles[defaultProfileKey]; ok {
		return defaultProfileKey, p
	}
	return defaultProfileKey, builtinProfiles()[defaultProfileKey]
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func builtinProfiles() map[string]CityProfile {
	const ict = "Asia/Ho_Chi_Minh"

	hanoi := CityProfile{28, 8, 75, ict, 21.0285, 105.8542, 25200}
	hcm := CityProfile{30, 5, 80, ict, 10.8231, 106.6297, 25200}
	danang := CityProfile{29, 6, 78, ict, 16.0544, 108.2022, 25200}

	return map[string]CityProfile{
		"hanoi":            hanoi,
		"hà nội":           hanoi,
		"ha noi":           hanoi,
		"ho chi minh city": hcm,
		"hồ chí minh":      hcm,
		"ho chi minh":      hcm,
		"da nang":          danang,
		"đà nẵng":          danang,
		"hue":              {27.5, 7, 77, ict, 16.4637, 107.5909, 25200},
		"can tho":          {30.5, 5, 82, ict, 10.0452, 105.7469, 25200},

		"london":    {15, 10, 65, "Europe/London", 51.5074, -0.1278, 0},
		"paris":     {18, 12, 60, "Europe/Paris", 48.8566, 2.3522, 3600},
		"berlin":    {16, 14, 58, "Europe/Berlin", 52.52, 13.405, 3600},
		"madrid":    {22, 15, 45, "Europe/Madrid", 40.4168, -3.7038, 3600},
		"rome":      {20, 12, 55, "Europe/Rome", 41.9028, 12.4964, 3600},
		"amsterdam": {14, 10, 70, "Europe/Amsterdam", 52.3676, 4.9041, 3600},
		"vienna":    {17, 13, 62, "Europe/Vienna", 48.2082, 16.3738, 3600},
		"moscow":    {12, 15, 65, "Europe/Moscow", 55.7558, 37.6173, 10800},

		"new york":    {20, 15, 55, "America/New_York", 40.7128, -74.006, -18000},
		"los angeles": {22, 8, 50, "America/Los_Angeles", 34.0522, -118.2437, -28800},

		"tokyo":     {22, 12, 65, "Asia/Tokyo", 35.6762, 139.6503, 32400},
		"singapore": {30, 3, 85, "Asia/Singapore", 1.3521, 103.8198, 28800},
		"bangkok":   {32, 5, 75, "Asia/Bangkok", 13.7563, 100.5018, 25200},
		"seoul":     {19, 16, 60, "Asia/Seoul", 37.5665, 126.978, 32400},
		"hong kong": {26, 8, 72, "Asia/Hong_Kong", 22.3193, 114.1694, 28800},
		"mumbai":    {32, 5, 78, "Asia/Kolkata", 19.076, 72.8777, 19800},
		"delhi":     {30, 12, 55, "Asia/Kolkata", 28.6139, 77.209, 19800},
		"shanghai":  {24, 14, 68, "Asia/Shanghai", 31.2304, 121.4737, 28800},
		"beijing":   {21, 18, 50, "Asia/Shanghai", 39.9042, 116.4074, 28800},
		"dubai":     {35, 8, 45, "Asia/Dubai", 25.2048, 55.2708, 14400},
		"sydney":    {20, 10, 60, "Australia/Sydney", -33.8688, 151.2093, 36000},
	}
}
