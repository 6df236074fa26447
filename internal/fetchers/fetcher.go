package fetchers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"steamtrends/internal/apperrors"
	"steamtrends/internal/logger"
	"steamtrends/internal/models"
)

// DataFetcher loads every source table. The load is all-or-nothing: if any
// table fails to fetch or parse, no dataset is returned.
type DataFetcher struct {
	source Source
	log    *logger.Logger
	now    func() time.Time
}

// NewDataFetcher creates a data fetcher reading from source
func NewDataFetcher(source Source) *DataFetcher {
	return &DataFetcher{
		source: source,
		log:    logger.GetGlobalLogger().WithComponent("fetcher"),
		now:    time.Now,
	}
}

// FetchAllData fetches and decodes all six tables concurrently
func (f *DataFetcher) FetchAllData(ctx context.Context) (*models.Dataset, error) {
	f.log.Info("Starting data fetch from all sources", map[string]interface{}{
		"source": f.source.Describe(),
		"tables": len(models.Tables()),
	})
	start := f.now()

	var (
		ds models.Dataset
		mu sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := fetchTable[models.BasicInfo](gctx, f.source, models.TableBasicInfo)
		mu.Lock()
		ds.Games = rows
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		rows, err := fetchTable[models.Category](gctx, f.source, models.TableCategories)
		mu.Lock()
		ds.Categories = rows
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		rows, err := fetchTable[models.GenreRow](gctx, f.source, models.TableGenres)
		mu.Lock()
		ds.Genres = rows
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		rows, err := fetchTable[models.Popularity](gctx, f.source, models.TablePopularity)
		mu.Lock()
		ds.Popularity = rows
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		rows, err := fetchTable[models.ReviewScore](gctx, f.source, models.TableReviews)
		mu.Lock()
		ds.Reviews = rows
		mu.Unlock()
		return err
	})
	g.Go(func() error {
		rows, err := fetchTable[models.Tag](gctx, f.source, models.TableTags)
		mu.Lock()
		ds.Tags = rows
		mu.Unlock()
		return err
	})

	if err := g.Wait(); err != nil {
		f.log.Error("Data load failed", err, map[string]interface{}{
			"source": f.source.Describe(),
		})
		return nil, err
	}

	ds.LoadedAt = f.now()
	f.log.Info("All tables loaded", map[string]interface{}{
		"rows":     ds.RowCounts(),
		"duration": ds.LoadedAt.Sub(start).String(),
	})
	return &ds, nil
}

func fetchTable[T keyed](ctx context.Context, source Source, name string) ([]T, error) {
	data, err := source.Fetch(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrSourceLoadFailure, name, err)
	}
	rows, err := decodeTable[T](name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrSourceLoadFailure, name, err)
	}
	return rows, nil
}
