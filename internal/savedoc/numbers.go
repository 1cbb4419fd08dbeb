package savedoc

import (
	"encoding/json"
	"math"
	"strconv"
)

// Int reads a JSON number as an integer. Documents parsed here carry
// json.Number, but trees built in code may hold plain Go numbers.
func Int(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	}
	return 0, false
}

// Number wraps an integer the way the decoder would have produced it
func Number(i int64) json.Number {
	return json.Number(strconv.FormatInt(i, 10))
}

// String reads a string member of a record
func String(rec map[string]any, key string) (string, bool) {
	s, ok := rec[key].(string)
	return s, ok
}
