package service

import (
	"context"
	"sort"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/queue"
	"github.com/emrgen/page/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PageLogService records what a page mentions, embeds and links to.
type PageLogService struct {
	store store.Store
	queue queue.PageLogQueue
}

// NewPageLogService creates a new PageLogService. A nil queue publishes nothing.
func NewPageLogService(store store.Store, logQueue queue.PageLogQueue) *PageLogService {
	if logQueue == nil {
		logQueue = queue.NopPageLogQueue{}
	}

	return &PageLogService{store: store, queue: logQueue}
}

// Append stores one entry and publishes it once committed.
func (l *PageLogService) Append(ctx context.Context, log *model.PageLog) error {
	return l.append(ctx, log)
}

// AppendTransaction stores entries produced by one edit under a shared transaction id.
// Each entry must belong to a different page.
func (l *PageLogService) AppendTransaction(ctx context.Context, logs ...*model.PageLog) (string, error) {
	transaction := uuid.New().String()
	for _, log := range logs {
		log.Transaction = transaction
	}

	if err := l.append(ctx, logs...); err != nil {
		return "", err
	}

	return transaction, nil
}

func (l *PageLogService) append(ctx context.Context, logs ...*model.PageLog) error {
	for _, log := range logs {
		if !log.EntityName.Valid() {
			return ErrInvalidEntity
		}
	}

	if err := l.store.CreatePageLogs(ctx, logs...); err != nil {
		return err
	}

	for _, log := range logs {
		if err := l.queue.Publish(ctx, log); err != nil {
			logrus.WithFields(logrus.Fields{
				"page_id":     log.PageID,
				"transaction": log.Transaction,
			}).Warnf("error publishing page log: %v", err)
		}
	}

	return nil
}

// List lists the log of a page, newest first.
func (l *PageLogService) List(ctx context.Context, pageID string) ([]*model.PageLog, error) {
	return l.store.ListPageLogs(ctx, pageID)
}

// Backlinks lists the entries of other pages that link to or mention pageID, newest first.
func (l *PageLogService) Backlinks(ctx context.Context, pageID string) ([]*model.PageLog, error) {
	var backlinks []*model.PageLog
	for _, name := range []model.EntityName{model.EntityForwardLink, model.EntityPageMention} {
		logs, err := l.store.ListPageLogsByEntity(ctx, name, pageID)
		if err != nil {
			return nil, err
		}
		backlinks = append(backlinks, logs...)
	}

	sort.SliceStable(backlinks, func(i, j int) bool {
		return backlinks[i].CreatedAt.After(backlinks[j].CreatedAt)
	})

	return backlinks, nil
}
