package models

import (
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewScoreLenientDecoding(t *testing.T) {
	input := "AppID,Positive,Negative\n" +
		"10,80,20\n" +
		"20,,5\n" +
		"30,n/a, 7 \n"

	var rows []ReviewScore
	require.NoError(t, gocsv.UnmarshalString(input, &rows))
	require.Len(t, rows, 3)

	assert.Equal(t, ReviewScore{AppID: "10", Positive: 80, Negative: 20}, rows[0])
	assert.Equal(t, Count(0), rows[1].Positive)
	assert.Equal(t, Count(5), rows[1].Negative)
	assert.Equal(t, Count(0), rows[2].Positive)
	assert.Equal(t, Count(7), rows[2].Negative)
}

func TestPopularityHeadersWithSpaces(t *testing.T) {
	input := "AppID,Average playtime forever,Recommendations,Peak CCU\n" +
		"570,600,1200,900\n"

	var rows []Popularity
	require.NoError(t, gocsv.UnmarshalString(input, &rows))
	require.Len(t, rows, 1)

	assert.Equal(t, "570", rows[0].Key())
	assert.Equal(t, Minutes(600), rows[0].AveragePlaytime)
	assert.InDelta(t, 10.0, rows[0].AveragePlaytime.Hours(), 1e-9)
	assert.Equal(t, Count(1200), rows[0].Recommendations)
}

func TestBasicInfoDecoding(t *testing.T) {
	input := "AppID,Name,Release date,Developers,Publishers\n" +
		"10,\"Counter-Strike\",01-Nov-00,Valve,Valve\n"

	var rows []BasicInfo
	require.NoError(t, gocsv.UnmarshalString(input, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Counter-Strike", rows[0].Name)
	assert.Equal(t, "01-Nov-00", rows[0].ReleaseDate)
}

func TestGenreReviewStatPercentages(t *testing.T) {
	s := GenreReviewStat{Positive: 75, Negative: 25}
	assert.Equal(t, 100, s.Total())
	assert.InDelta(t, 25.0, s.NegativePercentage(), 1e-9)

	assert.Zero(t, GenreReviewStat{}.NegativePercentage())
}

func TestGameRecordHasGenre(t *testing.T) {
	g := GameRecord{Genre: "Action", Genres: []string{"Action", "Indie"}}

	assert.True(t, g.HasGenre(AllGenres))
	assert.True(t, g.HasGenre(""))
	assert.True(t, g.HasGenre("Indie"))
	assert.False(t, g.HasGenre("RPG"))
}

func TestDatasetRowCounts(t *testing.T) {
	d := &Dataset{Games: make([]BasicInfo, 3), Reviews: make([]ReviewScore, 2)}
	counts := d.RowCounts()

	assert.Equal(t, 3, counts[TableBasicInfo])
	assert.Equal(t, 2, counts[TableReviews])
	assert.Equal(t, 0, counts[TableTags])
	assert.Len(t, counts, len(Tables()))

	var nilSet *Dataset
	assert.Empty(t, nilSet.RowCounts())
}
