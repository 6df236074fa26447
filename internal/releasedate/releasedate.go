// Package releasedate parses the compact D-MMM-YY release dates used by
// the catalog tables.
package releasedate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"steamtrends/internal/apperrors"
)

// Layout is the time layout matching D-MMM-YY with a zero-padded day
const Layout = "02-Jan-06"

// PivotYear splits two-digit years: below it they land in 2000+y,
// otherwise in 1900+y.
const PivotYear = 50

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// Parse converts "01-Nov-09" into 2009-11-01 UTC. It returns an error
// wrapping apperrors.ErrInvalidMonth or apperrors.ErrUnparsableDate;
// callers skip the row in both cases.
func Parse(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrUnparsableDate, s)
	}

	day, err := parseDigits(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day in %q", apperrors.ErrUnparsableDate, s)
	}

	month, ok := months[strings.ToLower(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidMonth, parts[1])
	}

	yy, err := parseDigits(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year in %q", apperrors.ErrUnparsableDate, s)
	}

	year := ExpandYear(yy)
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: no day %d in %s %d", apperrors.ErrUnparsableDate, day, month, year)
	}
	return t, nil
}

// ExpandYear applies the two-digit year window
func ExpandYear(yy int) int {
	if yy < PivotYear {
		return 2000 + yy
	}
	return 1900 + yy
}

// Format renders t back into D-MMM-YY
func Format(t time.Time) string {
	return t.Format(Layout)
}

// parseDigits accepts one or two ASCII digits
func parseDigits(s string) (int, error) {
	if len(s) == 0 || len(s) > 2 {
		return 0, fmt.Errorf("expected 1-2 digits, got %q", s)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("expected digits, got %q", s)
		}
	}
	return strconv.Atoi(s)
}
