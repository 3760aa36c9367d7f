package server

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/page/internal/config"
	"github.com/emrgen/page/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker(t *testing.T) {
	cfg := &config.Config{
		Jobs: config.JobsConfig{
			PruneSchedule:  "@every 1h",
			PruneWindow:    10 * time.Minute,
			SearchSchedule: "@every 1h",
		},
	}

	worker, err := NewWorker(cfg, tester.TestDB(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, worker.Run(ctx))
}

func TestWorkerBadSchedule(t *testing.T) {
	cfg := &config.Config{
		Jobs: config.JobsConfig{
			PruneSchedule:  "sometimes",
			PruneWindow:    time.Minute,
			SearchSchedule: "@every 1h",
		},
	}

	worker, err := NewWorker(cfg, tester.TestDB(t))
	require.NoError(t, err)

	assert.Error(t, worker.Run(context.Background()))
}
