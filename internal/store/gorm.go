package store

import (
	"context"
	"errors"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/page/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:     db,
		blocks: newKeyedMutex(),
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db     *gorm.DB
	blocks *keyedMutex
}

// pageChildren lists the tables whose rows belong to a page and go away with it.
var pageChildren = []interface{}{
	&model.PageVersion{},
	&model.PageLog{},
	&model.PageLabel{},
	&model.ProjectPage{},
	&model.TeamPage{},
	&model.PageFavorite{},
	&model.PageBlock{},
}

func (g *GormStore) CreatePage(ctx context.Context, page *model.Page) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(page).Error
}

func (g *GormStore) GetPage(ctx context.Context, id string) (*model.Page, error) {
	var page model.Page
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&page).Error
	if err != nil {
		return nil, err
	}

	return &page, nil
}

func (g *GormStore) ListPages(ctx context.Context, workspaceID string) ([]*model.Page, error) {
	var pages []*model.Page
	err := g.db.WithContext(ctx).Where("workspace_id = ?", workspaceID).Order("created_at desc").Find(&pages).Error
	return pages, err
}

func (g *GormStore) ListPagesFromIDs(ctx context.Context, ids []string) ([]*model.Page, error) {
	var pages []*model.Page
	if len(ids) == 0 {
		return pages, nil
	}

	err := g.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at desc").Find(&pages).Error
	return pages, err
}

func (g *GormStore) ListChildPages(ctx context.Context, parentID string) ([]*model.Page, error) {
	var pages []*model.Page
	err := g.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at desc").Find(&pages).Error
	return pages, err
}

func (g *GormStore) ListPagesUpdatedSince(ctx context.Context, since time.Time) ([]*model.Page, error) {
	var pages []*model.Page
	err := g.db.WithContext(ctx).Unscoped().Where("updated_at >= ? OR deleted_at >= ?", since, since).Order("updated_at asc").Find(&pages).Error
	return pages, err
}

func (g *GormStore) UpdatePage(ctx context.Context, page *model.Page) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(page).Error
}

func (g *GormStore) DeletePage(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page model.Page
		if err := tx.Select("id").Where("id = ?", id).First(&page).Error; err != nil {
			return err
		}

		tree, err := pageTree(tx, id)
		if err != nil {
			return err
		}
		ids = tree

		return deletePages(tx, ids)
	})

	return ids, err
}

func (g *GormStore) ErasePage(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page model.Page
		if err := tx.Unscoped().Select("id").Where("id = ?", id).First(&page).Error; err != nil {
			return err
		}

		unscoped := tx.Unscoped().Session(&gorm.Session{})
		tree, err := pageTree(unscoped, id)
		if err != nil {
			return err
		}
		ids = tree

		return deletePages(unscoped, ids)
	})

	return ids, err
}

func (g *GormStore) DeleteWorkspacePages(ctx context.Context, workspaceID string) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Page{}).Where("workspace_id = ?", workspaceID).Pluck("id", &ids).Error; err != nil {
			return err
		}

		return deletePages(tx, ids)
	})

	return ids, err
}

// pageTree collects rootID and every page below it, breadth first.
func pageTree(tx *gorm.DB, rootID string) ([]string, error) {
	seen := mapset.NewThreadUnsafeSet[string](rootID)
	ids := []string{rootID}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		var children []string
		err := tx.Model(&model.Page{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, child := range children {
			// a parent cycle would otherwise loop forever
			if seen.Add(child) {
				ids = append(ids, child)
				frontier = append(frontier, child)
			}
		}
	}

	return ids, nil
}

// deletePages removes the dependent rows first, then the pages themselves.
// Whether the delete is soft depends on the scope of tx.
func deletePages(tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	for _, child := range pageChildren {
		if err := tx.Where("page_id IN ?", ids).Delete(child).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("id IN ?", ids).Delete(&model.Page{}).Error; err != nil {
		return err
	}

	logrus.Infof("deleted %d pages", len(ids))

	return nil
}

func (g *GormStore) CreatePageVersion(ctx context.Context, version *model.PageVersion) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(version).Error
}

func (g *GormStore) GetPageVersion(ctx context.Context, pageID, versionID string) (*model.PageVersion, error) {
	var version model.PageVersion
	err := g.db.WithContext(ctx).Where("page_id = ? AND id = ?", pageID, versionID).First(&version).Error
	if err != nil {
		return nil, err
	}

	return &version, nil
}

func (g *GormStore) ListPageVersions(ctx context.Context, pageID string) ([]*model.PageVersion, error) {
	var versions []*model.PageVersion
	err := g.db.WithContext(ctx).Where("page_id = ?", pageID).Order("last_saved_at desc").Find(&versions).Error
	return versions, err
}

func (g *GormStore) ListPageVersionsSavedBetween(ctx context.Context, from, to time.Time) ([]*model.PageVersion, error) {
	var versions []*model.PageVersion
	err := g.db.WithContext(ctx).
		Where("last_saved_at >= ? AND last_saved_at < ?", from, to).
		Order("page_id asc").
		Order("last_saved_at desc").
		Find(&versions).Error
	return versions, err
}

func (g *GormStore) DeletePageVersions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	return g.db.WithContext(ctx).Unscoped().Where("id IN ?", ids).Delete(&model.PageVersion{}).Error
}

func (g *GormStore) CreatePageLogs(ctx context.Context, logs ...*model.PageLog) error {
	if len(logs) == 0 {
		return nil
	}

	return g.db.WithContext(ctx).Omit(clause.Associations).Create(logs).Error
}

func (g *GormStore) ListPageLogs(ctx context.Context, pageID string) ([]*model.PageLog, error) {
	var logs []*model.PageLog
	err := g.db.WithContext(ctx).Where("page_id = ?", pageID).Order("created_at desc").Find(&logs).Error
	return logs, err
}

func (g *GormStore) ListPageLogsByEntity(ctx context.Context, name model.EntityName, entityID string) ([]*model.PageLog, error) {
	var logs []*model.PageLog
	err := g.db.WithContext(ctx).
		Where("entity_name = ? AND entity_identifier = ?", name, entityID).
		Order("created_at desc").
		Find(&logs).Error
	return logs, err
}

func (g *GormStore) CreatePageLabel(ctx context.Context, label *model.PageLabel) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(label).Error
}

func (g *GormStore) DeletePageLabel(ctx context.Context, labelID, pageID string) error {
	res := g.db.WithContext(ctx).Where("label_id = ? AND page_id = ?", labelID, pageID).Delete(&model.PageLabel{})
	return rowsAffected(res)
}

func (g *GormStore) ListPageLabels(ctx context.Context, pageID string) ([]*model.PageLabel, error) {
	var labels []*model.PageLabel
	err := g.db.WithContext(ctx).Where("page_id = ?", pageID).Order("created_at desc").Find(&labels).Error
	return labels, err
}

func (g *GormStore) CreateProjectPage(ctx context.Context, link *model.ProjectPage) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
}

func (g *GormStore) DeleteProjectPage(ctx context.Context, projectID, pageID string) error {
	res := g.db.WithContext(ctx).Where("project_id = ? AND page_id = ?", projectID, pageID).Delete(&model.ProjectPage{})
	return rowsAffected(res)
}

func (g *GormStore) ListProjectPages(ctx context.Context, projectID string) ([]*model.Page, error) {
	var pages []*model.Page
	err := g.db.WithContext(ctx).
		Joins("JOIN project_pages ON project_pages.page_id = pages.id AND project_pages.deleted_at IS NULL").
		Where("project_pages.project_id = ?", projectID).
		Order("pages.created_at desc").
		Find(&pages).Error
	return pages, err
}

func (g *GormStore) CreateTeamPage(ctx context.Context, link *model.TeamPage) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(link).Error
}

func (g *GormStore) DeleteTeamPage(ctx context.Context, teamID, pageID string) error {
	res := g.db.WithContext(ctx).Where("team_id = ? AND page_id = ?", teamID, pageID).Delete(&model.TeamPage{})
	return rowsAffected(res)
}

func (g *GormStore) ListTeamPages(ctx context.Context, teamID string) ([]*model.Page, error) {
	var pages []*model.Page
	err := g.db.WithContext(ctx).
		Joins("JOIN team_pages ON team_pages.page_id = pages.id AND team_pages.deleted_at IS NULL").
		Where("team_pages.team_id = ?", teamID).
		Order("pages.created_at desc").
		Find(&pages).Error
	return pages, err
}

func (g *GormStore) CreatePageFavorite(ctx context.Context, favorite *model.PageFavorite) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Create(favorite).Error
}

// DeletePageFavorite removes the row outright, the (page, user) pair has no live-row scoping.
func (g *GormStore) DeletePageFavorite(ctx context.Context, userID, pageID string) error {
	res := g.db.WithContext(ctx).Unscoped().Where("user_id = ? AND page_id = ?", userID, pageID).Delete(&model.PageFavorite{})
	return rowsAffected(res)
}

func (g *GormStore) ListPageFavorites(ctx context.Context, userID string) ([]*model.PageFavorite, error) {
	var favorites []*model.PageFavorite
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&favorites).Error
	return favorites, err
}

// CreatePageBlock serialises creations under the same project and page so that
// the largest-key read in the create hook and the insert are not interleaved
// within this process. Separate processes can still race.
func (g *GormStore) CreatePageBlock(ctx context.Context, block *model.PageBlock) error {
	unlock := g.blocks.Lock(block.ProjectID + "/" + block.PageID)
	defer unlock()

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(block).Error
	})
}

func (g *GormStore) GetPageBlock(ctx context.Context, id string) (*model.PageBlock, error) {
	var block model.PageBlock
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&block).Error
	if err != nil {
		return nil, err
	}

	return &block, nil
}

func (g *GormStore) UpdatePageBlock(ctx context.Context, block *model.PageBlock) error {
	return g.db.WithContext(ctx).Omit(clause.Associations).Save(block).Error
}

func (g *GormStore) ListPageBlocks(ctx context.Context, projectID, pageID string) ([]*model.PageBlock, error) {
	var blocks []*model.PageBlock
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND page_id = ?", projectID, pageID).
		Order("sort_order asc").
		Find(&blocks).Error
	return blocks, err
}

func (g *GormStore) DeletePageBlock(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PageBlock{})
	return rowsAffected(res)
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx, blocks: g.blocks})
	})
}

// rowsAffected turns a delete that matched nothing into gorm.ErrRecordNotFound.
func rowsAffected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
