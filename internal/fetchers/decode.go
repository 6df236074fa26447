package fetchers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"

	"steamtrends/internal/models"
)

// requiredColumns lists the headers each table must carry
var requiredColumns = map[string][]string{
	models.TableBasicInfo:  {"AppID", "Release date"},
	models.TableCategories: {"AppID"},
	models.TableGenres:     {"AppID", "Genres"},
	models.TablePopularity: {"AppID", "Average playtime forever"},
	models.TableReviews:    {"AppID", "Positive", "Negative"},
	models.TableTags:       {"AppID"},
}

type keyed interface {
	Key() string
}

// decodeTable parses one CSV table into typed rows. The header row must
// carry the table's required columns and every row needs an AppID.
func decodeTable[T keyed](name string, data []byte) ([]T, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if err := checkHeader(name, data); err != nil {
		return nil, err
	}

	var rows []T
	if err := gocsv.UnmarshalCSV(gocsv.LazyCSVReader(bytes.NewReader(data)), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for i, row := range rows {
		if strings.TrimSpace(row.Key()) == "" {
			// +2: header row and 1-based numbering
			return nil, fmt.Errorf("%s line %d: empty AppID", name, i+2)
		}
	}
	return rows, nil
}

func checkHeader(name string, data []byte) error {
	header, err := gocsv.LazyCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = true
	}
	for _, col := range requiredColumns[name] {
		if !present[col] {
			return fmt.Errorf("%s is missing column %q", name, col)
		}
	}
	return nil
}
