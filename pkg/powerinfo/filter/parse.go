package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Calendar durations accepted by ParseDuration.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 365 * Day
)

// ErrInvalidDuration is returned by ParseDuration.
var ErrInvalidDuration = errors.New("invalid duration")

var durationPattern = regexp.MustCompile(`(?i)^([0-9]+(?:\.[0-9]+)?)\s*(d|w|mo|y)$`)

var calendarUnits = map[string]time.Duration{
	"d":  Day,
	"w":  Week,
	"mo": Month,
	"y":  Year,
}

// ParseDuration accepts calendar forms such as "30d", "2w", "3mo" and "1y"
// as well as anything time.ParseDuration accepts. Negative values are
// rejected.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	if m := durationPattern.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		return time.Duration(n * float64(calendarUnits[strings.ToLower(m[2])])), nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return d, nil
}
