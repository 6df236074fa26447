package models

// Table file names, in load order
const (
	TableBasicInfo  = "basic_info.csv"
	TableCategories = "categories.csv"
	TableGenres     = "genres.csv"
	TablePopularity = "popularity.csv"
	TableReviews    = "review_scores.csv"
	TableTags       = "tags.csv"
)

// Tables lists every required source table
func Tables() []string {
	return []string{TableBasicInfo, TableCategories, TableGenres, TablePopularity, TableReviews, TableTags}
}

// BasicInfo is one row of basic_info.csv
type BasicInfo struct {
	AppID       string `csv:"AppID" json:"app_id"`
	Name        string `csv:"Name" json:"name"`
	ReleaseDate string `csv:"Release date" json:"release_date"` // D-MMM-YY
	Developers  string `csv:"Developers" json:"developers"`
	Publishers  string `csv:"Publishers" json:"publishers"`
}

// Category is one row of categories.csv
type Category struct {
	AppID      string `csv:"AppID" json:"app_id"`
	Categories string `csv:"Categories" json:"categories"`
}

// GenreRow is one row of genres.csv, one genre per row
type GenreRow struct {
	AppID  string `csv:"AppID" json:"app_id"`
	Genres string `csv:"Genres" json:"genres"`
}

// Popularity is one row of popularity.csv
type Popularity struct {
	AppID           string  `csv:"AppID" json:"app_id"`
	AveragePlaytime Minutes `csv:"Average playtime forever" json:"average_playtime_forever"`
	Recommendations Count   `csv:"Recommendations" json:"recommendations"`
}

// ReviewScore is one row of review_scores.csv
type ReviewScore struct {
	AppID    string `csv:"AppID" json:"app_id"`
	Positive Count  `csv:"Positive" json:"positive"`
	Negative Count  `csv:"Negative" json:"negative"`
}

// Tag is one row of tags.csv
type Tag struct {
	AppID string `csv:"AppID" json:"app_id"`
	Tags  string `csv:"Tags" json:"tags"`
}

func (r BasicInfo) Key() string   { return r.AppID }
func (r Category) Key() string    { return r.AppID }
func (r GenreRow) Key() string    { return r.AppID }
func (r Popularity) Key() string  { return r.AppID }
func (r ReviewScore) Key() string { return r.AppID }
func (r Tag) Key() string         { return r.AppID }
