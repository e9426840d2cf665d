package ports

import (
	"context"

	"survivalvolume/domain/grid"
)

// WorkbookReader loads one sheet of a spreadsheet export as a raw grid
type WorkbookReader interface {
	ReadGrid(ctx context.Context, path, sheet string) (grid.Grid, error)
	Sheets(ctx context.Context, path string) ([]string, error)
}
