package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// TaskStates moves issues between workflow states. The states and issues tables
// belong to the task subsystem, which may not be deployed alongside pages.
type TaskStates interface {
	// CompleteIssue moves an issue into its project's completed state.
	// A project without a completed state is not an error.
	CompleteIssue(ctx context.Context, projectID, issueID string) error
}

const completedStateGroup = "completed"

type taskState struct {
	ID string
}

// GormTaskStates implements TaskStates on the states and issues tables.
type GormTaskStates struct {
	db *gorm.DB
}

func NewGormTaskStates(db *gorm.DB) *GormTaskStates {
	return &GormTaskStates{db: db}
}

func (g *GormTaskStates) CompleteIssue(ctx context.Context, projectID, issueID string) error {
	var state taskState

	err := g.db.WithContext(ctx).
		Table("states").
		Select("id").
		Where(map[string]interface{}{"group": completedStateGroup, "project_id": projectID}).
		Where("deleted_at IS NULL").
		Order("id").
		Take(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return g.db.WithContext(ctx).
		Table("issues").
		Where("id = ?", issueID).
		Update("state_id", state.ID).Error
}
