package typeutils

import (
	"fmt"
	"strings"
	"time"
)

// Compare returns 0 for equal, -1 if a < b else 1 if a > b.
// Watermarks are compared chronologically when both sides can be read as
// timestamps, numerically when both are numbers, and lexically otherwise so that
// opaque cursors keep a stable order.
func Compare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	aTime, aOk := toTime(a)
	bTime, bOk := toTime(b)
	if aOk && bOk {
		return aTime.Compare(bTime)
	}

	aNum, aOk := toFloat(a)
	bNum, bOk := toFloat(b)
	if aOk && bOk {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		}
		return 0
	}

	return strings.Compare(fmt.Sprintf("%v", a), fmt.Sprintf("%v", b))
}

// CompareWatermarks compares two serialized watermarks
func CompareWatermarks(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}

	return Compare(a, b)
}

func toTime(v any) (time.Time, bool) {
	switch value := v.(type) {
	case time.Time:
		return value, true
	case string:
		parsed, err := ParseTimestamp(value)
		return parsed, err == nil
	default:
		return time.Time{}, false
	}
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case int:
		return float64(value), true
	case int32:
		return float64(value), true
	case int64:
		return float64(value), true
	case uint64:
		return float64(value), true
	case float32:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}
