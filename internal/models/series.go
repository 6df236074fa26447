package models

import "time"

// AllGenres is the filter sentinel meaning no genre restriction
const AllGenres = "All"

// ReleaseCount is the number of releases on one full calendar date
type ReleaseCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// CalendarBucket is the release count for one (month, day) placed on the display year
type CalendarBucket struct {
	Date  time.Time  `json:"date"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
	Value int        `json:"value"`
}

// GenreReviewStat summarizes review sentiment for one genre
type GenreReviewStat struct {
	Genre              string  `json:"genre"`
	Positive           int     `json:"positive"`
	Negative           int     `json:"negative"`
	GameCount          int     `json:"game_count"`
	GamesWithReviews   int     `json:"games_with_reviews"`
	PositivePercentage float64 `json:"positive_percentage"` // 0..100
}

// Total returns the combined review volume
func (s GenreReviewStat) Total() int {
	return s.Positive + s.Negative
}

// NegativePercentage returns the share of negative reviews, 0 when there are none
func (s GenreReviewStat) NegativePercentage() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Negative) / float64(s.Total()) * 100
}

// YearlyPlaytimePoint is the mean playtime of the games released in one year
type YearlyPlaytimePoint struct {
	Year        int     `json:"year"`
	AvgPlaytime float64 `json:"avg_playtime"` // hours
	Count       int     `json:"count"`
}

// GameRecord is a catalog row joined with its popularity and genre rows
type GameRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ReleaseDate     time.Time `json:"release_date"` // zero when unparsable
	Year            int       `json:"year"`
	Developers      string    `json:"developers"`
	Publishers      string    `json:"publishers"`
	AvgPlaytime     float64   `json:"avg_playtime"` // hours
	Recommendations int       `json:"recommendations"`
	Genre           string    `json:"genre"`  // first listed genre
	Genres          []string  `json:"genres"` // every listed genre
}

// HasGenre reports whether the game lists the given genre. The AllGenres
// sentinel and the empty string match every game.
func (g GameRecord) HasGenre(genre string) bool {
	if genre == "" || genre == AllGenres {
		return true
	}
	for _, candidate := range g.Genres {
		if candidate == genre {
			return true
		}
	}
	return false
}
