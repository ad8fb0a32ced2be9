package utils

import (
	"math"
	"strconv"
	"strings"
)

// numberLike is satisfied by json.Number from both encoding/json and goccy/go-json
type numberLike interface {
	Float64() (float64, error)
}

// AsObject returns v as a JSON object when it is one
func AsObject(v interface{}) (map[string]interface{}, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok || obj == nil {
		return nil, false
	}
	return obj, true
}

// NonBlankString returns the trimmed string value of v.
// It reports false for non-strings and for strings that are blank after trimming.
func NonBlankString(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// FirstNonBlankString returns the first key of obj holding a non-blank string
func FirstNonBlankString(obj map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := NonBlankString(obj[key]); ok {
			return s, true
		}
	}
	return "", false
}

// NonNegativeNumber converts v to a finite, non-negative float64.
// Numbers and numeric strings are accepted; anything else reports false.
func NonNegativeNumber(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case numberLike:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// NonNegativeInt is NonNegativeNumber truncated to an int
func NonNegativeInt(v interface{}) (int, bool) {
	f, ok := NonNegativeNumber(v)
	if !ok || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Bool returns v when it is a boolean
func Bool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// Identifier converts a string or integral number into an identifier string
func Identifier(v interface{}) (string, bool) {
	if s, ok := NonBlankString(v); ok {
		return s, true
	}
	f, ok := NonNegativeNumber(v)
	if !ok || f != math.Trunc(f) {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
