package model

import (
	"time"

	"github.com/emrgen/page/internal/text"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultDescriptionHTML is the html of a page nobody has typed into yet.
	DefaultDescriptionHTML = "<p></p>"
)

// Access controls who can see a page.
type Access int16

const (
	AccessPublic Access = iota
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the known access levels.
func (a Access) Valid() bool {
	return a == AccessPublic || a == AccessPrivate
}

// Page is a rich-text document owned by a workspace.
// The content is kept in four parallel forms: the binary editor state (source of truth),
// the structured json tree, the html rendering and the stripped plain text.
type Page struct {
	BaseModel
	WorkspaceID         string         `gorm:"type:uuid;not null;index"`
	Name                string         `gorm:"size:255"`
	Description         datatypes.JSON `gorm:"not null"`
	DescriptionBinary   []byte
	DescriptionHTML     string `gorm:"not null"`
	DescriptionStripped *string
	OwnedByID           string  `gorm:"type:uuid;not null;index"`
	Access              Access  `gorm:"not null"`
	Color               string  `gorm:"size:255"`
	ParentID            *string `gorm:"type:uuid;index"`
	Parent              *Page   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	ArchivedAt          *time.Time
	IsLocked            bool           `gorm:"not null"`
	ViewProps           datatypes.JSON `gorm:"not null"`
	LogoProps           datatypes.JSON `gorm:"not null"`
	IsGlobal            bool           `gorm:"not null"`
}

func (Page) TableName() string {
	return "pages"
}

// NewPage returns a page with the column defaults filled in.
func NewPage(workspaceID, ownerID, name string) *Page {
	return &Page{
		WorkspaceID:     workspaceID,
		OwnedByID:       ownerID,
		Name:            name,
		DescriptionHTML: DefaultDescriptionHTML,
		Access:          AccessPublic,
	}
}

// BeforeSave keeps the stripped text in sync with the html on every write.
func (p *Page) BeforeSave(tx *gorm.DB) error {
	p.DescriptionStripped = text.StrippedOrNil(p.DescriptionHTML)
	return nil
}

func (p *Page) BeforeCreate(tx *gorm.DB) error {
	if len(p.Description) == 0 {
		p.Description = datatypes.JSON(`{}`)
	}
	if len(p.ViewProps) == 0 {
		p.ViewProps = datatypes.JSON(`{"full_width": false}`)
	}
	if len(p.LogoProps) == 0 {
		p.LogoProps = datatypes.JSON(`{}`)
	}

	return p.BaseModel.BeforeCreate(tx)
}

// Archived reports whether the page has an archive timestamp.
func (p *Page) Archived() bool {
	return p.ArchivedAt != nil
}
