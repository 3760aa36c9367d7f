package jobs

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/search"
	"github.com/emrgen/page/internal/store"
	"github.com/sirupsen/logrus"
)

// SearchSync pushes pages changed since its previous run into the search index.
// The first run indexes everything.
type SearchSync struct {
	store    store.Store
	indexer  search.Indexer
	schedule string
	since    time.Time
}

func NewSearchSync(store store.Store, indexer search.Indexer, schedule string) *SearchSync {
	return &SearchSync{
		store:    store,
		indexer:  indexer,
		schedule: schedule,
	}
}

func (s *SearchSync) Name() string {
	return "search_sync"
}

func (s *SearchSync) Schedule() string {
	return s.schedule
}

func (s *SearchSync) Run() {
	if err := s.Sync(context.Background()); err != nil {
		logrus.Errorf("error syncing search index: %v", err)
	}
}

// Sync indexes live pages and drops deleted ones. The watermark only moves on success.
// Pages stamped exactly at the watermark are sent again, so late commits are not lost.
func (s *SearchSync) Sync(ctx context.Context) error {
	pages, err := s.store.ListPagesUpdatedSince(ctx, s.since)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return nil
	}

	since := s.since
	var records []search.PageRecord
	var deleted []string
	for _, page := range pages {
		if page.UpdatedAt.After(since) {
			since = page.UpdatedAt
		}
		if page.DeletedAt.Valid {
			if page.DeletedAt.Time.After(since) {
				since = page.DeletedAt.Time
			}
			deleted = append(deleted, page.ID)
			continue
		}
		records = append(records, search.RecordFromPage(page))
	}

	if err := s.indexer.IndexPages(records...); err != nil {
		return err
	}
	if err := s.indexer.DeletePages(deleted...); err != nil {
		return err
	}

	logrus.Debugf("search sync: indexed %d pages, removed %d", len(records), len(deleted))
	s.since = since

	return nil
}
