package service

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// PageBlockService manages the ordered blocks of older pages.
type PageBlockService struct {
	store  store.Store
	states TaskStates
}

// NewPageBlockService creates a new PageBlockService. states may be nil when no
// task subsystem is available; completed blocks then leave their issues alone.
func NewPageBlockService(store store.Store, states TaskStates) *PageBlockService {
	return &PageBlockService{store: store, states: states}
}

type CreateBlockRequest struct {
	WorkspaceID string
	ProjectID   string
	PageID      string
	CreatedByID *string
	Name        string
	Description datatypes.JSON
	// DescriptionHTML defaults to an empty paragraph.
	DescriptionHTML *string
	IssueID         *string
	CompletedAt     *time.Time
	// SortOrder is only used for the first block of a page.
	SortOrder float64
}

// CreateBlock appends a block after the last block of its page.
func (b *PageBlockService) CreateBlock(ctx context.Context, request CreateBlockRequest) (*model.PageBlock, error) {
	block := model.NewPageBlock(request.WorkspaceID, request.ProjectID, request.PageID, request.Name)
	block.CreatedByID = request.CreatedByID
	block.Description = request.Description
	if request.DescriptionHTML != nil {
		block.DescriptionHTML = *request.DescriptionHTML
	}
	block.IssueID = request.IssueID
	block.CompletedAt = request.CompletedAt
	block.SortOrder = request.SortOrder

	if err := b.store.CreatePageBlock(ctx, block); err != nil {
		return nil, err
	}
	b.afterSave(ctx, block)

	return block, nil
}

// UpdateBlockRequest carries the fields to change; nil fields are left alone.
// Complete set to true stamps the block completed now, false clears it.
type UpdateBlockRequest struct {
	ID              string
	UpdatedByID     *string
	Name            *string
	Description     datatypes.JSON
	DescriptionHTML *string
	IssueID         *string
	Complete        *bool
	Sync            *bool
}

func (b *PageBlockService) UpdateBlock(ctx context.Context, request UpdateBlockRequest) (*model.PageBlock, error) {
	block, err := b.store.GetPageBlock(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	if request.Name != nil {
		block.Name = *request.Name
	}
	if request.Description != nil {
		block.Description = request.Description
	}
	if request.DescriptionHTML != nil {
		block.DescriptionHTML = *request.DescriptionHTML
	}
	if request.IssueID != nil {
		block.IssueID = request.IssueID
	}
	if request.Complete != nil {
		if *request.Complete {
			now := time.Now()
			block.CompletedAt = &now
		} else {
			block.CompletedAt = nil
		}
	}
	if request.Sync != nil {
		block.Sync = *request.Sync
	}
	block.UpdatedByID = request.UpdatedByID

	if err := b.store.UpdatePageBlock(ctx, block); err != nil {
		return nil, err
	}
	b.afterSave(ctx, block)

	return block, nil
}

// ListBlocks lists the blocks of a page in a project in sort order.
func (b *PageBlockService) ListBlocks(ctx context.Context, projectID, pageID string) ([]*model.PageBlock, error) {
	return b.store.ListPageBlocks(ctx, projectID, pageID)
}

// MoveBlock places a block right after afterID, or first when afterID is empty.
// Only the moved block's key changes. ErrNoGap means the neighbours' keys are too
// close together; RenumberBlocks spreads them out again.
func (b *PageBlockService) MoveBlock(ctx context.Context, id, afterID string) (*model.PageBlock, error) {
	block, err := b.store.GetPageBlock(ctx, id)
	if err != nil {
		return nil, err
	}

	blocks, err := b.store.ListPageBlocks(ctx, block.ProjectID, block.PageID)
	if err != nil {
		return nil, err
	}

	siblings := make([]*model.PageBlock, 0, len(blocks))
	for _, sibling := range blocks {
		if sibling.ID != block.ID {
			siblings = append(siblings, sibling)
		}
	}

	position := 0
	if afterID != "" {
		position = -1
		for i, sibling := range siblings {
			if sibling.ID == afterID {
				position = i + 1
				break
			}
		}
		if position < 0 {
			return nil, ErrBlockNotInPage
		}
	}

	var prev, next *model.PageBlock
	if position > 0 {
		prev = siblings[position-1]
	}
	if position < len(siblings) {
		next = siblings[position]
	}

	sortOrder, err := between(prev, next)
	if err != nil {
		return nil, err
	}

	block.SortOrder = sortOrder
	if err := b.store.UpdatePageBlock(ctx, block); err != nil {
		return nil, err
	}
	b.afterSave(ctx, block)

	return block, nil
}

// between picks a key strictly between the neighbours of a slot.
func between(prev, next *model.PageBlock) (float64, error) {
	switch {
	case prev == nil && next == nil:
		return model.DefaultSortOrder, nil
	case next == nil:
		return prev.SortOrder + model.SortOrderGap, nil
	case prev == nil:
		if next.SortOrder > model.SortOrderGap {
			return next.SortOrder - model.SortOrderGap, nil
		}
		return midpoint(0, next.SortOrder)
	default:
		return midpoint(prev.SortOrder, next.SortOrder)
	}
}

func midpoint(low, high float64) (float64, error) {
	mid := low + (high-low)/2
	if mid <= low || mid >= high {
		return 0, ErrNoGap
	}

	return mid, nil
}

// RenumberBlocks rewrites the keys of a page's blocks to 65535, 75535, ... keeping their order.
func (b *PageBlockService) RenumberBlocks(ctx context.Context, projectID, pageID string) ([]*model.PageBlock, error) {
	var blocks []*model.PageBlock
	err := b.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		blocks, err = tx.ListPageBlocks(ctx, projectID, pageID)
		if err != nil {
			return err
		}

		for i, block := range blocks {
			block.SortOrder = model.DefaultSortOrder + float64(i)*model.SortOrderGap
			if err := tx.UpdatePageBlock(ctx, block); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func (b *PageBlockService) DeleteBlock(ctx context.Context, id string) error {
	return b.store.DeletePageBlock(ctx, id)
}

// afterSave moves the linked issue of a completed block into the completed state.
// Failures are logged and never reach the caller.
func (b *PageBlockService) afterSave(ctx context.Context, block *model.PageBlock) {
	if !block.Completed() || b.states == nil {
		return
	}

	entry := logrus.WithFields(logrus.Fields{
		"block_id":   block.ID,
		"project_id": block.ProjectID,
		"issue_id":   *block.IssueID,
	})
	if err := b.states.CompleteIssue(ctx, block.ProjectID, *block.IssueID); err != nil {
		entry.Debugf("skipping issue completion: %v", err)
		return
	}
	entry.Debug("completed issue of block")
}
