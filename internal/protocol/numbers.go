package protocol

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Float is a wire number that decodes leniently: absent, null or
// non-numeric values become 0 instead of failing the whole message.
// Numeric strings are accepted, including "NaN".
type Float float64

// Int is the integral counterpart of Float.
type Int int64

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (f *Float) UnmarshalJSON(data []byte) error {
	*f = 0
	switch v := decodeScalar(data).(type) {
	case json.Number:
		if n, err := v.Float64(); err == nil {
			*f = Float(n)
		}
	case string, bool:
		if n, err := cast.ToFloat64E(trimmed(v)); err == nil {
			*f = Float(n)
		}
	}
	return nil
}

func (i *Int) UnmarshalJSON(data []byte) error {
	*i = 0
	switch v := decodeScalar(data).(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			*i = Int(n)
			return nil
		}
		if n, err := v.Float64(); err == nil && !math.IsInf(n, 0) {
			*i = Int(n)
		}
	case string, bool:
		if n, err := cast.ToInt64E(trimmed(v)); err == nil {
			*i = Int(n)
			return nil
		}
		if n, err := cast.ToFloat64E(trimmed(v)); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			*i = Int(n)
		}
	}
	return nil
}

func (f *Float) Ptr() *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

func FloatPtr(v *float64) *Float {
	if v == nil {
		return nil
	}
	f := Float(*v)
	return &f
}

func decodeScalar(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil
	}
	return raw
}

func trimmed(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}
