package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntityName is the kind of entity a page log entry points at.
type EntityName string

const (
	EntityToDo        EntityName = "to_do"
	EntityIssue       EntityName = "issue"
	EntityImage       EntityName = "image"
	EntityVideo       EntityName = "video"
	EntityFile        EntityName = "file"
	EntityLink        EntityName = "link"
	EntityCycle       EntityName = "cycle"
	EntityModule      EntityName = "module"
	EntityBackLink    EntityName = "back_link"
	EntityForwardLink EntityName = "forward_link"
	EntityPageMention EntityName = "page_mention"
	EntityUserMention EntityName = "user_mention"
)

var entityNames = map[EntityName]struct{}{
	EntityToDo:        {},
	EntityIssue:       {},
	EntityImage:       {},
	EntityVideo:       {},
	EntityFile:        {},
	EntityLink:        {},
	EntityCycle:       {},
	EntityModule:      {},
	EntityBackLink:    {},
	EntityForwardLink: {},
	EntityPageMention: {},
	EntityUserMention: {},
}

// Valid reports whether n is a known entity kind.
func (n EntityName) Valid() bool {
	_, ok := entityNames[n]
	return ok
}

// PageLog records a structural event in a page: a mention, an embed or a link.
// Entries written by one logical edit share the same Transaction.
// Back links are found by looking up entries whose EntityIdentifier is the target page.
type PageLog struct {
	BaseModel
	WorkspaceID      string     `gorm:"type:uuid;not null;index"`
	PageID           string     `gorm:"type:uuid;not null;uniqueIndex:idx_page_logs_page_transaction,priority:1"`
	Page             *Page      `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
	Transaction      string     `gorm:"type:uuid;not null;uniqueIndex:idx_page_logs_page_transaction,priority:2"`
	EntityIdentifier *string    `gorm:"type:uuid;index:idx_page_logs_entity,priority:2"`
	EntityName       EntityName `gorm:"size:30;not null;index:idx_page_logs_entity,priority:1"`
}

func (PageLog) TableName() string {
	return "page_logs"
}

func (l *PageLog) BeforeCreate(tx *gorm.DB) error {
	if l.Transaction == "" {
		l.Transaction = uuid.New().String()
	}

	return l.BaseModel.BeforeCreate(tx)
}
