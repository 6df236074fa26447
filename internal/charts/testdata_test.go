package charts

import (
	"steamtrends/internal/models"
)

func sampleDataset() *models.Dataset {
	return &models.Dataset{
		Games: []models.BasicInfo{
			{AppID: "1", Name: "Alpha", ReleaseDate: "1-Nov-09"},
			{AppID: "2", Name: "Beta", ReleaseDate: "3-Mar-09"},
			{AppID: "3", Name: "Gamma", ReleaseDate: "4-Apr-10"},
			{AppID: "4", Name: "Delta", ReleaseDate: "1-Nov-10"},
			{AppID: "5", Name: "Broken", ReleaseDate: "31-Foo-10"},
		},
		Genres: []models.GenreRow{
			{AppID: "1", Genres: "Action"},
			{AppID: "2", Genres: "Action"},
			{AppID: "2", Genres: "Indie"},
			{AppID: "3", Genres: "Indie"},
			{AppID: "4", Genres: "Strategy"},
		},
		Popularity: []models.Popularity{
			{AppID: "1", AveragePlaytime: 120},
			{AppID: "2", AveragePlaytime: 60},
			{AppID: "3", AveragePlaytime: 0},
			{AppID: "4", AveragePlaytime: 240},
		},
		Reviews: []models.ReviewScore{
			{AppID: "1", Positive: 90, Negative: 10},
			{AppID: "2", Positive: 50, Negative: 0},
			{AppID: "3", Positive: 20, Negative: 60},
			{AppID: "4", Positive: 5, Negative: 5},
		},
	}
}
