package model

// PageLabel attaches a workspace label to a page.
type PageLabel struct {
	BaseModel
	WorkspaceID string `gorm:"type:uuid;not null;index"`
	LabelID     string `gorm:"type:uuid;not null;index;uniqueIndex:page_label_unique_label_page_when_deleted_at_null,where:deleted_at IS NULL"`
	PageID      string `gorm:"type:uuid;not null;index;uniqueIndex:page_label_unique_label_page_when_deleted_at_null,where:deleted_at IS NULL"`
	Page        *Page  `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PageLabel) TableName() string {
	return "page_labels"
}

// ProjectPage links a page into a project.
// Only live rows take part in the uniqueness check, so a removed link can be added back.
type ProjectPage struct {
	BaseModel
	WorkspaceID string `gorm:"type:uuid;not null;index"`
	ProjectID   string `gorm:"type:uuid;not null;index;uniqueIndex:project_page_unique_project_page_when_deleted_at_null,where:deleted_at IS NULL"`
	PageID      string `gorm:"type:uuid;not null;index;uniqueIndex:project_page_unique_project_page_when_deleted_at_null,where:deleted_at IS NULL"`
	Page        *Page  `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProjectPage) TableName() string {
	return "project_pages"
}

// TeamPage links a page to a team, with the same live-row uniqueness as ProjectPage.
type TeamPage struct {
	BaseModel
	WorkspaceID string `gorm:"type:uuid;not null;index"`
	TeamID      string `gorm:"type:uuid;not null;index;uniqueIndex:team_page_unique_team_page_when_deleted_at_null,where:deleted_at IS NULL"`
	PageID      string `gorm:"type:uuid;not null;index;uniqueIndex:team_page_unique_team_page_when_deleted_at_null,where:deleted_at IS NULL"`
	Page        *Page  `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TeamPage) TableName() string {
	return "team_pages"
}

// PageFavorite marks a page as a favorite of a user.
//
// Deprecated: favorites moved to the workspace level; kept for existing rows.
type PageFavorite struct {
	ProjectBaseModel
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_page_favorites_page_user,priority:2"`
	PageID string `gorm:"type:uuid;not null;uniqueIndex:idx_page_favorites_page_user,priority:1"`
	Page   *Page  `gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE" json:"-"`
}

func (PageFavorite) TableName() string {
	return "page_favorites"
}
