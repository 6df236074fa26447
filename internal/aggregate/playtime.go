package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"steamtrends/internal/apperrors"
	"steamtrends/internal/models"
	"steamtrends/internal/releasedate"
)

// JoinReport counts what JoinGames could not resolve
type JoinReport struct {
	Games             int
	MissingPopularity int
	MissingGenres     int
	UnparsableDates   int
}

// Err returns an error wrapping apperrors.ErrMissingJoinKey when any game
// lacked a joined row, nil otherwise.
func (r JoinReport) Err() error {
	if r.MissingPopularity == 0 && r.MissingGenres == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d games without popularity, %d without genres",
		apperrors.ErrMissingJoinKey, r.MissingPopularity, r.Games, r.MissingGenres)
}

// JoinGames joins catalog rows with popularity and genre rows by AppID.
// Missing popularity leaves playtime and recommendations at zero, missing
// genres leave Genre empty. An unparsable release date leaves ReleaseDate
// zero.
func JoinGames(info []models.BasicInfo, popularity []models.Popularity, genres []models.GenreRow) ([]models.GameRecord, JoinReport) {
	pop := make(map[string]models.Popularity, len(popularity))
	for _, p := range popularity {
		pop[p.AppID] = p
	}

	genresByApp := make(map[string][]string)
	for _, g := range genres {
		name := strings.TrimSpace(g.Genres)
		if name == "" {
			continue
		}
		genresByApp[g.AppID] = append(genresByApp[g.AppID], name)
	}

	report := JoinReport{Games: len(info)}
	games := make([]models.GameRecord, 0, len(info))
	for _, row := range info {
		game := models.GameRecord{
			ID:         row.AppID,
			Name:       row.Name,
			Developers: row.Developers,
			Publishers: row.Publishers,
		}

		if d, err := releasedate.Parse(row.ReleaseDate); err == nil {
			game.ReleaseDate = d
			game.Year = d.Year()
		} else {
			report.UnparsableDates++
		}

		if p, ok := pop[row.AppID]; ok {
			game.AvgPlaytime = p.AveragePlaytime.Hours()
			game.Recommendations = int(p.Recommendations)
		} else {
			report.MissingPopularity++
		}

		if gs, ok := genresByApp[row.AppID]; ok {
			game.Genres = gs
			game.Genre = gs[0]
		} else {
			report.MissingGenres++
		}

		games = append(games, game)
	}
	return games, report
}

// YearlyPlaytime averages playtime hours per release year. genre restricts
// the games to those listing it; "All" or "" keeps every game. Games with
// no release date or no recorded playtime are skipped. The result is
// ascending by year.
func YearlyPlaytime(games []models.GameRecord, genre string) []models.YearlyPlaytimePoint {
	type acc struct {
		sum   float64
		count int
	}
	byYear := make(map[int]*acc)
	for _, g := range games {
		if !g.HasGenre(genre) || g.ReleaseDate.IsZero() || g.AvgPlaytime <= 0 {
			continue
		}
		a, ok := byYear[g.Year]
		if !ok {
			a = &acc{}
			byYear[g.Year] = a
		}
		a.sum += g.AvgPlaytime
		a.count++
	}

	points := make([]models.YearlyPlaytimePoint, 0, len(byYear))
	for year, a := range byYear {
		points = append(points, models.YearlyPlaytimePoint{
			Year:        year,
			AvgPlaytime: a.sum / float64(a.count),
			Count:       a.count,
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// DistinctGenres returns every genre listed by the games, sorted
func DistinctGenres(games []models.GameRecord) []string {
	seen := make(map[string]struct{})
	for _, g := range games {
		for _, name := range g.Genres {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FilterOptions returns the genre filter choices, "All" first
func FilterOptions(games []models.GameRecord) []string {
	return append([]string{models.AllGenres}, DistinctGenres(games)...)
}

// DateIssue describes a catalog row whose release date was skipped
type DateIssue struct {
	AppID string
	Value string
	Err   error
}

// DateIssues lists every catalog row with an unparsable release date
func DateIssues(rows []models.BasicInfo) []DateIssue {
	var issues []DateIssue
	for _, row := range rows {
		if _, err := releasedate.Parse(row.ReleaseDate); err != nil {
			issues = append(issues, DateIssue{AppID: row.AppID, Value: row.ReleaseDate, Err: err})
		}
	}
	return issues
}
