package aggregate

import (
	"sort"
	"time"

	"steamtrends/internal/models"
	"steamtrends/internal/releasedate"
)

type monthDay struct {
	month time.Month
	day   int
}

// ReleasesByDay counts catalog rows per full release date. Rows whose date
// cannot be parsed are skipped. The result is ascending by date.
func ReleasesByDay(rows []models.BasicInfo) []models.ReleaseCount {
	counts := make(map[time.Time]int)
	for _, row := range rows {
		d, err := releasedate.Parse(row.ReleaseDate)
		if err != nil {
			continue
		}
		counts[d]++
	}

	out := make([]models.ReleaseCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, models.ReleaseCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CalendarBuckets folds release counts onto a single display year, summing
// every (month, day) across years. Feb 29 folds into Feb 28 when the
// display year has no leap day. The result is ascending by date.
func CalendarBuckets(counts []models.ReleaseCount, displayYear int) []models.CalendarBucket {
	sums := make(map[monthDay]int)
	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		key := monthDay{month: c.Date.Month(), day: c.Date.Day()}
		if key.month == time.February && key.day == 29 && !isLeap(displayYear) {
			key.day = 28
		}
		sums[key] += c.Count
	}

	out := make([]models.CalendarBucket, 0, len(sums))
	for key, v := range sums {
		out = append(out, models.CalendarBucket{
			Date:  time.Date(displayYear, key.month, key.day, 0, 0, 0, 0, time.UTC),
			Month: key.month,
			Day:   key.day,
			Value: v,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CalendarFromGames groups catalog rows straight into calendar buckets
func CalendarFromGames(rows []models.BasicInfo, displayYear int) []models.CalendarBucket {
	return CalendarBuckets(ReleasesByDay(rows), displayYear)
}

// MaxBucketValue returns the largest bucket value, 0 for no buckets
func MaxBucketValue(buckets []models.CalendarBucket) int {
	highest := 0
	for _, b := range buckets {
		if b.Value > highest {
			highest = b.Value
		}
	}
	return highest
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
