package service

import (
	"context"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/store"
)

// AssociationService links pages to labels, projects, teams and user favorites.
type AssociationService struct {
	store store.Store
}

func NewAssociationService(store store.Store) *AssociationService {
	return &AssociationService{store: store}
}

func (a *AssociationService) AddLabel(ctx context.Context, workspaceID, pageID, labelID string) (*model.PageLabel, error) {
	label := &model.PageLabel{WorkspaceID: workspaceID, PageID: pageID, LabelID: labelID}
	if err := a.store.CreatePageLabel(ctx, label); err != nil {
		return nil, err
	}

	return label, nil
}

func (a *AssociationService) RemoveLabel(ctx context.Context, pageID, labelID string) error {
	return a.store.DeletePageLabel(ctx, labelID, pageID)
}

func (a *AssociationService) ListLabels(ctx context.Context, pageID string) ([]*model.PageLabel, error) {
	return a.store.ListPageLabels(ctx, pageID)
}

// AddToProject links a page into a project. Linking it twice fails with gorm.ErrDuplicatedKey
// until the first link is removed.
func (a *AssociationService) AddToProject(ctx context.Context, workspaceID, projectID, pageID string) (*model.ProjectPage, error) {
	link := &model.ProjectPage{WorkspaceID: workspaceID, ProjectID: projectID, PageID: pageID}
	if err := a.store.CreateProjectPage(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (a *AssociationService) RemoveFromProject(ctx context.Context, projectID, pageID string) error {
	return a.store.DeleteProjectPage(ctx, projectID, pageID)
}

func (a *AssociationService) ListProjectPages(ctx context.Context, projectID string) ([]*model.Page, error) {
	return a.store.ListProjectPages(ctx, projectID)
}

func (a *AssociationService) AddToTeam(ctx context.Context, workspaceID, teamID, pageID string) (*model.TeamPage, error) {
	link := &model.TeamPage{WorkspaceID: workspaceID, TeamID: teamID, PageID: pageID}
	if err := a.store.CreateTeamPage(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

func (a *AssociationService) RemoveFromTeam(ctx context.Context, teamID, pageID string) error {
	return a.store.DeleteTeamPage(ctx, teamID, pageID)
}

func (a *AssociationService) ListTeamPages(ctx context.Context, teamID string) ([]*model.Page, error) {
	return a.store.ListTeamPages(ctx, teamID)
}

// Favorite marks a page as a favorite of a user.
func (a *AssociationService) Favorite(ctx context.Context, workspaceID, projectID, userID, pageID string) (*model.PageFavorite, error) {
	favorite := &model.PageFavorite{
		ProjectBaseModel: model.ProjectBaseModel{WorkspaceID: workspaceID, ProjectID: projectID},
		UserID:           userID,
		PageID:           pageID,
	}
	if err := a.store.CreatePageFavorite(ctx, favorite); err != nil {
		return nil, err
	}

	return favorite, nil
}

func (a *AssociationService) Unfavorite(ctx context.Context, userID, pageID string) error {
	return a.store.DeletePageFavorite(ctx, userID, pageID)
}

// ListFavoritePages lists the live pages a user marked, most recently marked first.
func (a *AssociationService) ListFavoritePages(ctx context.Context, userID string) ([]*model.Page, error) {
	favorites, err := a.store.ListPageFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.PageID)
	}

	pages, err := a.store.ListPagesFromIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Page, len(pages))
	for _, page := range pages {
		byID[page.ID] = page
	}

	ordered := make([]*model.Page, 0, len(pages))
	for _, id := range ids {
		if page, ok := byID[id]; ok {
			ordered = append(ordered, page)
		}
	}

	return ordered, nil
}
