package models

import (
	"math"
	"strconv"
	"strings"
)

// Count is an integer column. Blank or malformed cells decode as 0.
type Count int

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (c *Count) UnmarshalCSV(s string) error {
	*c = Count(lenientNumber(s))
	return nil
}

// Minutes is a duration column in minutes. Blank or malformed cells decode as 0.
type Minutes float64

// UnmarshalCSV implements gocsv.TypeUnmarshaller
func (m *Minutes) UnmarshalCSV(s string) error {
	*m = Minutes(lenientNumber(s))
	return nil
}

// Hours converts minutes to hours
func (m Minutes) Hours() float64 {
	return float64(m) / 60
}

func lenientNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
