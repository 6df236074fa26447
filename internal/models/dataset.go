package models

import "time"

// Dataset holds every source table after a successful load. It is
// read-only once constructed.
type Dataset struct {
	Games      []BasicInfo
	Categories []Category
	Genres     []GenreRow
	Popularity []Popularity
	Reviews    []ReviewScore
	Tags       []Tag
	LoadedAt   time.Time
}

// RowCounts returns the number of rows per table
func (d *Dataset) RowCounts() map[string]int {
	if d == nil {
		return map[string]int{}
	}
	return map[string]int{
		TableBasicInfo:  len(d.Games),
		TableCategories: len(d.Categories),
		TableGenres:     len(d.Genres),
		TablePopularity: len(d.Popularity),
		TableReviews:    len(d.Reviews),
		TableTags:       len(d.Tags),
	}
}
