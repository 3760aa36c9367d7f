package model

import (
	"time"

	"github.com/emrgen/page/internal/text"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PageVersion is a snapshot of a page's content taken at a save checkpoint.
// Versions are appended, never edited; cold versions are thinned out by the pruner job.
type PageVersion struct {
	BaseModel
	WorkspaceID         string    `gorm:"type:uuid;not null;index"`
	PageID              string    `gorm:"type:uuid;not null;index"`
	Page                *Page     `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
	LastSavedAt         time.Time `gorm:"not null;index"`
	OwnedByID           string    `gorm:"type:uuid;not null"`
	DescriptionBinary   []byte
	DescriptionHTML     string `gorm:"not null"`
	DescriptionStripped *string
	DescriptionJSON     datatypes.JSON `gorm:"not null"`
}

func (PageVersion) TableName() string {
	return "page_versions"
}

// NewPageVersion snapshots the current content of page, saved by ownerID at savedAt.
func NewPageVersion(page *Page, ownerID string, savedAt time.Time) *PageVersion {
	return &PageVersion{
		WorkspaceID:       page.WorkspaceID,
		PageID:            page.ID,
		LastSavedAt:       savedAt,
		OwnedByID:         ownerID,
		DescriptionBinary: page.DescriptionBinary,
		DescriptionHTML:   page.DescriptionHTML,
		DescriptionJSON:   page.Description,
	}
}

func (v *PageVersion) BeforeSave(tx *gorm.DB) error {
	v.DescriptionStripped = text.StrippedOrNil(v.DescriptionHTML)
	return nil
}

func (v *PageVersion) BeforeCreate(tx *gorm.DB) error {
	if v.LastSavedAt.IsZero() {
		v.LastSavedAt = tx.NowFunc()
	}
	if len(v.DescriptionJSON) == 0 {
		v.DescriptionJSON = datatypes.JSON(`{}`)
	}

	return v.BaseModel.BeforeCreate(tx)
}
