package jobs

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/store"
	"github.com/sirupsen/logrus"
)

// VersionPruner thins out the versions saved during the last two windows so that
// each page keeps only its newest version per window.
type VersionPruner struct {
	store    store.Store
	window   time.Duration
	schedule string
	now      func() time.Time
}

func NewVersionPruner(store store.Store, window time.Duration, schedule string) *VersionPruner {
	return &VersionPruner{
		store:    store,
		window:   window,
		schedule: schedule,
		now:      time.Now,
	}
}

func (p *VersionPruner) Name() string {
	return "version_pruner"
}

func (p *VersionPruner) Schedule() string {
	return p.schedule
}

func (p *VersionPruner) Run() {
	removed, err := p.Prune(context.Background())
	if err != nil {
		logrus.Errorf("error pruning page versions: %v", err)
		return
	}

	if removed > 0 {
		logrus.Infof("pruned %d page versions", removed)
	}
}

// Prune deletes the superseded versions and returns how many it removed.
func (p *VersionPruner) Prune(ctx context.Context) (int, error) {
	now := p.now()
	versions, err := p.store.ListPageVersionsSavedBetween(ctx, now.Add(-2*p.window), now)
	if err != nil {
		return 0, err
	}

	type slot struct {
		pageID string
		at     time.Time
	}

	// versions arrive grouped by page, newest first, so the first one seen in a slot survives
	kept := make(map[slot]struct{})
	var remove []string
	for _, version := range versions {
		key := slot{pageID: version.PageID, at: version.LastSavedAt.Truncate(p.window)}
		if _, ok := kept[key]; ok {
			remove = append(remove, version.ID)
			continue
		}
		kept[key] = struct{}{}
	}

	if err := p.store.DeletePageVersions(ctx, remove); err != nil {
		return 0, err
	}

	return len(remove), nil
}
