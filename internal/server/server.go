package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/emrgen/page/internal/config"
	"github.com/emrgen/page/internal/jobs"
	"github.com/emrgen/page/internal/search"
	"github.com/emrgen/page/internal/store"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"gorm.io/gorm"
)

// Worker runs the background jobs of the page store.
type Worker struct {
	db       *gorm.DB
	indexer  search.Indexer
	executor *jobs.TaskExecutor
}

// NewWorker migrates the database and prepares the jobs.
func NewWorker(cfg *config.Config, db *gorm.DB) (*Worker, error) {
	pageStore := store.NewGormStore(db)
	if err := pageStore.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	indexer := config.GetIndexer(cfg)
	executor := jobs.NewTaskExecutor(
		jobs.NewVersionPruner(pageStore, cfg.Jobs.PruneWindow, cfg.Jobs.PruneSchedule),
		jobs.NewSearchSync(pageStore, indexer, cfg.Jobs.SearchSchedule),
	)

	return &Worker{
		db:       db,
		indexer:  indexer,
		executor: executor,
	}, nil
}

// Run starts the jobs and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.executor.Run(); err != nil {
		return err
	}

	<-ctx.Done()
	w.executor.Stop()

	if closer, ok := w.indexer.(interface{ Close() }); ok {
		closer.Close()
	}

	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Start runs the worker until SIGINT, SIGTERM or SIGTSTP.
func Start(cfg *config.Config) error {
	config.SetupLogging(cfg)

	db, err := config.OpenDb(cfg)
	if err != nil {
		return err
	}

	worker, err := NewWorker(cfg, db)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// listen for interrupt signal to gracefully shut down the worker
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	go func() {
		<-sigs
		// clean Ctrl+C output
		fmt.Println()
		logrus.Info("stopping page worker")
		cancel()
	}()

	logrus.Infof("page worker started, press Ctrl+C to stop")

	return worker.Run(ctx)
}
