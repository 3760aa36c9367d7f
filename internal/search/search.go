package search

import (
	"strings"
	"sync"

	"github.com/emrgen/page/internal/model"
)

// PageRecord is the data indexed for a page.
type PageRecord struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Text        string `json:"text"`
	Access      string `json:"access"`
	Archived    bool   `json:"archived"`
}

// RecordFromPage builds the index record of a page from its stripped text.
func RecordFromPage(page *model.Page) PageRecord {
	record := PageRecord{
		ID:          page.ID,
		WorkspaceID: page.WorkspaceID,
		Name:        page.Name,
		Access:      page.Access.String(),
		Archived:    page.Archived(),
	}
	if page.DescriptionStripped != nil {
		record.Text = *page.DescriptionStripped
	}

	return record
}

// Query describes a search inside one workspace.
type Query struct {
	Text            string
	WorkspaceID     string
	IncludeArchived bool
	Limit           int
}

// Result is a single search hit.
type Result struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Snippet string `json:"snippet"`
}

// Indexer pushes pages into a full-text index and queries it.
type Indexer interface {
	IndexPages(records ...PageRecord) error
	DeletePages(ids ...string) error
	Search(q Query) ([]Result, error)
}

var (
	_ Indexer = Nop{}
	_ Indexer = (*Memory)(nil)
)

// Nop drops everything; used when no search backend is configured.
type Nop struct{}

func (Nop) IndexPages(records ...PageRecord) error { return nil }
func (Nop) DeletePages(ids ...string) error        { return nil }
func (Nop) Search(q Query) ([]Result, error)       { return nil, nil }

// Memory is an in-process index matching on case-insensitive substrings.
type Memory struct {
	mu      sync.RWMutex
	records map[string]PageRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]PageRecord)}
}

func (m *Memory) IndexPages(records ...PageRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range records {
		m.records[record.ID] = record
	}

	return nil
}

func (m *Memory) DeletePages(ids ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.records, id)
	}

	return nil
}

// Record returns the indexed record of a page.
func (m *Memory) Record(id string) (PageRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	return record, ok
}

func (m *Memory) Search(q Query) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(q.Text)
	results := make([]Result, 0)
	for _, record := range m.records {
		if q.WorkspaceID != "" && record.WorkspaceID != q.WorkspaceID {
			continue
		}
		if record.Archived && !q.IncludeArchived {
			continue
		}
		if !strings.Contains(strings.ToLower(record.Name), needle) && !strings.Contains(strings.ToLower(record.Text), needle) {
			continue
		}

		results = append(results, Result{ID: record.ID, Name: record.Name, Snippet: record.Text})
		if q.Limit > 0 && len(results) == q.Limit {
			break
		}
	}

	return results, nil
}
