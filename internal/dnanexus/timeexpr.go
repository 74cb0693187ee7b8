package dnanexus

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var timeUnits = map[byte]int64{
	's': int64(time.Second / time.Millisecond),
	'm': int64(time.Minute / time.Millisecond),
	'h': int64(time.Hour / time.Millisecond),
	'd': 24 * int64(time.Hour/time.Millisecond),
	'w': 7 * 24 * int64(time.Hour/time.Millisecond),
	'M': 30 * 24 * int64(time.Hour/time.Millisecond),
	'y': 365 * 24 * int64(time.Hour/time.Millisecond),
}

var errTimeOverflow = errors.New("time expression overflows int64 milliseconds")

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseTime converts a time expression to a Unix timestamp in milliseconds.
//
// Accepted forms are an integer millisecond timestamp, an integer with a unit
// suffix (s, m, h, d, w, M=30d, y=365d), a local date such as 2012-01-01
// (optionally followed by a time), or RFC 3339. Negative values are relative
// to now, so "-10d" means ten days ago.
func ParseTime(expr string, now time.Time) (int64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, fmt.Errorf("empty time expression")
	}

	ms, err := parseTimedelta(expr)
	if errors.Is(err, errTimeOverflow) {
		return 0, fmt.Errorf("time expression %q is out of range", expr)
	}
	if err != nil {
		ms, err = parseDate(expr)
		if err != nil {
			return 0, fmt.Errorf("expected an int timestamp, a date (e.g. 2012-01-01), or an int with a single-letter suffix (s, m, h, d, w, M, y; e.g. \"-10d\" for 10 days ago); got %q", expr)
		}
	}
	if ms < 0 {
		base := now.UnixMilli()
		if base < 0 && ms < math.MinInt64-base {
			return 0, fmt.Errorf("time expression %q is out of range", expr)
		}
		ms += base
		if ms < 0 {
			return 0, fmt.Errorf("time expression %q is before the epoch", expr)
		}
	}
	return ms, nil
}

func parseTimedelta(expr string) (int64, error) {
	multiplier := int64(1)
	digits := expr
	if last := expr[len(expr)-1]; last < '0' || last > '9' {
		unit, ok := timeUnits[last]
		if !ok {
			return 0, fmt.Errorf("unknown time unit %q", last)
		}
		multiplier = unit
		digits = expr[:len(expr)-1]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt64/multiplier || n < math.MinInt64/multiplier {
		return 0, errTimeOverflow
	}
	return n * multiplier, nil
}

func parseDate(expr string) (int64, error) {
	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		return t.UnixMilli(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, expr, time.Local); err == nil {
			if t.UnixMilli() <= 0 {
				return 0, fmt.Errorf("date %q is before the epoch", expr)
			}
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized date %q", expr)
}
