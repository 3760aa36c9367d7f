package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the lifecycle fields shared by every table.
// Rows are soft deleted through DeletedAt.
type BaseModel struct {
	ID          string `gorm:"primaryKey;type:uuid;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	CreatedByID *string        `gorm:"type:uuid"`
	UpdatedByID *string        `gorm:"type:uuid"`
}

// BeforeCreate assigns a fresh uuid when the caller did not pick one.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	return nil
}

// ProjectBaseModel scopes a row to a project inside a workspace.
type ProjectBaseModel struct {
	BaseModel
	WorkspaceID string `gorm:"type:uuid;not null;index"`
	ProjectID   string `gorm:"type:uuid;not null;index"`
}
