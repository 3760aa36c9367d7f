package model

import (
	"database/sql"
	"time"

	"github.com/emrgen/page/internal/text"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultSortOrder is the key of the first block under a page.
	DefaultSortOrder float64 = 65535
	// SortOrderGap separates the key of a new block from the current largest key.
	SortOrderGap float64 = 10000
)

// PageBlock is an ordered piece of a page inside a project.
// Blocks are ordered by sparse float keys so a block can move between two
// neighbours without renumbering the rest.
//
// Deprecated: page content lives in Page.Description; blocks remain for old pages.
type PageBlock struct {
	ProjectBaseModel
	PageID              string         `gorm:"type:uuid;not null;index:idx_page_blocks_page_sort,priority:1"`
	Page                *Page          `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
	Name                string         `gorm:"size:255;not null"`
	Description         datatypes.JSON `gorm:"not null"`
	DescriptionHTML     string         `gorm:"not null"`
	DescriptionStripped *string
	IssueID             *string `gorm:"type:uuid;index"`
	CompletedAt         *time.Time
	SortOrder           float64 `gorm:"not null;index:idx_page_blocks_page_sort,priority:2"`
	Sync                bool    `gorm:"not null"`
}

func (PageBlock) TableName() string {
	return "page_blocks"
}

// NewPageBlock returns a block with the column defaults filled in.
func NewPageBlock(workspaceID, projectID, pageID, name string) *PageBlock {
	return &PageBlock{
		ProjectBaseModel: ProjectBaseModel{
			WorkspaceID: workspaceID,
			ProjectID:   projectID,
		},
		PageID:          pageID,
		Name:            name,
		DescriptionHTML: DefaultDescriptionHTML,
		Sync:            true,
	}
}

// Completed reports whether the block is done and points at an issue to close.
func (b *PageBlock) Completed() bool {
	return b.CompletedAt != nil && b.IssueID != nil
}

func (b *PageBlock) BeforeSave(tx *gorm.DB) error {
	b.DescriptionStripped = text.StrippedOrNil(b.DescriptionHTML)
	return nil
}

// BeforeCreate places a new block after the last one sharing its project and page.
// The read of the largest key and the insert are not atomic; callers that create
// blocks concurrently must serialise them.
func (b *PageBlock) BeforeCreate(tx *gorm.DB) error {
	var result struct {
		Largest sql.NullFloat64
	}

	err := tx.Session(&gorm.Session{NewDB: true}).
		Model(&PageBlock{}).
		Select("MAX(sort_order) AS largest").
		Where("project_id = ? AND page_id = ?", b.ProjectID, b.PageID).
		Scan(&result).Error
	if err != nil {
		return err
	}

	if result.Largest.Valid {
		b.SortOrder = result.Largest.Float64 + SortOrderGap
	} else if b.SortOrder == 0 {
		b.SortOrder = DefaultSortOrder
	}

	if len(b.Description) == 0 {
		b.Description = datatypes.JSON(`{}`)
	}

	return b.BaseModel.BeforeCreate(tx)
}
