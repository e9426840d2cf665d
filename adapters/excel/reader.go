package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"survivalvolume/adapters/coercer"
	"survivalvolume/domain/core"
	"survivalvolume/domain/grid"
	"survivalvolume/internal"
	"survivalvolume/internal/errors"

	"github.com/xuri/excelize/v2"
)

var logger = internal.DefaultLogger.With("excel")

// GridReader reads Excel and CSV exports into raw grids
type GridReader struct {
	config  ReaderConfig
	coercer *coercer.CellCoercer
}

// NewGridReader creates a reader that handles both Excel and CSV files
func NewGridReader(config ReaderConfig) *GridReader {
	return &GridReader{
		config:  config,
		coercer: coercer.NewCellCoercer(config.Coercion),
	}
}

// ReadGrid reads one sheet as a grid of typed cells. CSV files have a single
// unnamed sheet, so sheet is ignored for them.
func (r *GridReader) ReadGrid(ctx context.Context, path, sheet string) (grid.Grid, error) {
	if err := ctx.Err(); err != nil {
		return grid.Grid{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return grid.Grid{}, errors.ReadError(path, err)
	}

	var rows [][]string
	var err error
	start := time.Now()
	switch DetectFileType(path) {
	case FileTypeCSV:
		rows, err = r.readCSVRows(path)
	case FileTypeXLSX:
		rows, err = r.readExcelRows(path, sheet)
	default:
		return grid.Grid{}, errors.ReadError(path, fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}
	if err != nil {
		return grid.Grid{}, err
	}
	if r.config.MaxRows > 0 && len(rows) > r.config.MaxRows {
		return grid.Grid{}, errors.ReadError(path, fmt.Errorf("%d rows exceeds limit of %d", len(rows), r.config.MaxRows))
	}

	g := r.coercer.CoerceRows(rows)
	analysis := r.coercer.Analyze(g)
	logger.Debug("read %s [%s] in %.2fms: %d rows, %d columns, %d numeric cells",
		filepath.Base(path), sheet, float64(time.Since(start).Nanoseconds())/1e6,
		g.NumRows(), g.NumCols(), analysis.NumericCount)
	return g, nil
}

// Sheets lists the sheet names of a workbook
func (r *GridReader) Sheets(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if DetectFileType(path) == FileTypeCSV {
		return []string{strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (r *GridReader) readExcelRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	defer f.Close()

	found := false
	for _, name := range f.GetSheetList() {
		if name == sheet {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q in %s", core.ErrSheetNotFound, sheet, filepath.Base(path))
	}

	// Raw values keep full numeric precision instead of the display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	return rows, nil
}

func (r *GridReader) readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.ReadError(path, err)
	}
	return rows, nil
}
