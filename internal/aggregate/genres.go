package aggregate

import (
	"sort"
	"strings"

	"steamtrends/internal/models"
)

// NoiseFloor is the minimum combined review count for a genre to be reported
const NoiseFloor = 100

type reviewTotals struct {
	positive int
	negative int
}

// GenreReviewStats sums review counts per genre and returns the topN genres
// by total review volume. Genres below the noise floor or without any
// reviewed game are dropped. Ties keep the order in which genres were first
// seen. topN <= 0 returns every qualifying genre.
func GenreReviewStats(genres []models.GenreRow, reviews []models.ReviewScore, topN int) []models.GenreReviewStat {
	// later rows for the same AppID replace earlier ones
	byApp := make(map[string]reviewTotals, len(reviews))
	for _, r := range reviews {
		pos, neg := max(int(r.Positive), 0), max(int(r.Negative), 0)
		if pos > 0 || neg > 0 {
			byApp[r.AppID] = reviewTotals{positive: pos, negative: neg}
		}
	}

	var order []string
	members := make(map[string][]string)
	for _, g := range genres {
		name := strings.TrimSpace(g.Genres)
		if name == "" {
			continue
		}
		if _, seen := members[name]; !seen {
			order = append(order, name)
		}
		members[name] = append(members[name], g.AppID)
	}

	stats := make([]models.GenreReviewStat, 0, len(order))
	for _, name := range order {
		ids := members[name]
		stat := models.GenreReviewStat{Genre: name, GameCount: len(ids)}
		for _, id := range ids {
			r, ok := byApp[id]
			if !ok {
				continue
			}
			stat.Positive += r.positive
			stat.Negative += r.negative
			stat.GamesWithReviews++
		}

		if stat.GamesWithReviews == 0 || stat.Total() < NoiseFloor {
			continue
		}
		stat.PositivePercentage = float64(stat.Positive) / float64(stat.Total()) * 100
		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Total() > stats[j].Total() })
	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}
