package page

import (
	"context"
	"errors"
	"io"

	"github.com/emrgen/page/internal/config"
	"github.com/emrgen/page/internal/service"
	"github.com/emrgen/page/internal/store"
	"gorm.io/gorm"
)

// Client wires the page services to the stores described by a config.
type Client struct {
	Pages        *service.PageService
	Versions     *service.PageVersionService
	Logs         *service.PageLogService
	Associations *service.AssociationService
	Blocks       *service.PageBlockService

	store   store.Store
	closers []io.Closer
}

// NewClient opens the database and the optional cache, search index and log queue.
// The schema is not migrated; run `page db migrate` or Migrate first.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	db, err := config.OpenDb(cfg)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, cfg, db)
}

func newClient(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Client, error) {
	client := &Client{store: store.NewGormStore(db)}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	client.closers = append(client.closers, sqlDB)

	pageCache, err := config.GetPageCache(ctx, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	client.track(pageCache)

	indexer := config.GetIndexer(cfg)
	client.track(indexer)

	logQueue, err := config.GetPageLogQueue(cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	client.closers = append(client.closers, logQueue)

	client.Pages = service.NewPageService(client.store, pageCache, indexer)
	client.Versions = service.NewPageVersionService(client.store, client.Pages)
	client.Logs = service.NewPageLogService(client.store, logQueue)
	client.Associations = service.NewAssociationService(client.store)
	client.Blocks = service.NewPageBlockService(client.store, service.NewGormTaskStates(db))

	return client, nil
}

func (c *Client) track(v interface{}) {
	switch closer := v.(type) {
	case io.Closer:
		c.closers = append(c.closers, closer)
	case interface{ Close() }:
		c.closers = append(c.closers, closeFunc(closer.Close))
	}
}

type closeFunc func()

func (f closeFunc) Close() error {
	f()
	return nil
}

// Migrate creates or updates the page tables.
func (c *Client) Migrate() error {
	return c.store.Migrate()
}

// Close releases every connection in reverse order of opening.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
