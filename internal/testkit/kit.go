package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"survivalvolume/domain/core"
	"survivalvolume/domain/grid"
	"survivalvolume/ports"
)

// MemoryWorkbooks is an in-memory ports.WorkbookReader keyed by path and sheet
type MemoryWorkbooks struct {
	mu    sync.RWMutex
	books map[string]map[string]grid.Grid
	reads map[string]int
}

var _ ports.WorkbookReader = (*MemoryWorkbooks)(nil)

// NewMemoryWorkbooks creates an empty workbook store
func NewMemoryWorkbooks() *MemoryWorkbooks {
	return &MemoryWorkbooks{
		books: make(map[string]map[string]grid.Grid),
		reads: make(map[string]int),
	}
}

// Put stores g as one sheet of the workbook at path
func (m *MemoryWorkbooks) Put(path, sheet string, g grid.Grid) *MemoryWorkbooks {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.books[path] == nil {
		m.books[path] = make(map[string]grid.Grid)
	}
	m.books[path][sheet] = g
	return m
}

func (m *MemoryWorkbooks) ReadGrid(ctx context.Context, path, sheet string) (grid.Grid, error) {
	if err := ctx.Err(); err != nil {
		return grid.Grid{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sheets, ok := m.books[path]
	if !ok {
		return grid.Grid{}, fmt.Errorf("%w: workbook %s", core.ErrNotFound, path)
	}
	g, ok := sheets[sheet]
	if !ok {
		return grid.Grid{}, fmt.Errorf("%w: %q in %s", core.ErrSheetNotFound, sheet, path)
	}
	m.reads[path]++
	return g, nil
}

func (m *MemoryWorkbooks) Sheets(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sheets, ok := m.books[path]
	if !ok {
		return nil, fmt.Errorf("%w: workbook %s", core.ErrNotFound, path)
	}
	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Reads reports how many sheets were read from path
func (m *MemoryWorkbooks) Reads(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads[path]
}

// StudyWorkbooks generates a Prism and an Absolute workbook for each seed,
// named "study-<seed>.xlsx"
func StudyWorkbooks(prismSheet, absoluteSheet string, seeds ...int64) *MemoryWorkbooks {
	m := NewMemoryWorkbooks()
	for _, seed := range seeds {
		cfg := DefaultStudyConfig()
		cfg.Seed = seed
		gen := NewStudyGenerator(cfg)
		groups := gen.GenerateGroups()
		path := fmt.Sprintf("study-%d.xlsx", seed)
		m.Put(path, prismSheet, gen.PrismGrid(groups))
		m.Put(path, absoluteSheet, gen.AbsoluteGrid(groups))
	}
	return m
}
