package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// The boolean reports whether val held a value that is an exact integer;
// strings must parse as a base-10 integer and floats must have no fraction.
func ToInt(val any) (int, bool) {
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case int16:
		return int(v), true
	case int8:
		return int(v), true
	case uint:
		return int(v), true
	case uint64:
		return int(v), true
	case uint32:
		return int(v), true
	case uint16:
		return int(v), true
	case uint8:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		return ToInt(float64(v))
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return i, true
	case []byte:
		return ToInt(string(v))
	default:
		return 0, false
	}
}

// DigitsOnly strips every non-digit rune from s ("1080p" -> "1080").
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsTruthy mirrors loose truthiness of metadata values: nil, false, zero numbers
// and empty strings are false. A whitespace-only string is true.
func IsTruthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		if i, ok := ToInt(v); ok {
			return i != 0
		}
		return true
	}
}
