package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"survivalvolume/domain/grid"
)

// CellCoercer turns raw spreadsheet strings into typed cells with fixed rules
type CellCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NullTokens         []string `json:"null_tokens"`         // case-insensitive strings read as missing
	ThousandsSeparator bool     `json:"thousands_separator"` // strip "," in "1,234.5"
	DecimalComma       bool     `json:"decimal_comma"`       // read "1234,5" as 1234.5
	ParenNegatives     bool     `json:"paren_negatives"`     // read "(12)" as -12
	CollapseWhitespace bool     `json:"collapse_whitespace"` // squeeze runs of spaces in text cells
}

// DefaultCoercionConfig returns the rules for Studylog exports
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NullTokens:         []string{"nan", "n/a", "na", "#n/a", "null"},
		ThousandsSeparator: true,
		DecimalComma:       false,
		ParenNegatives:     false,
		CollapseWhitespace: false,
	}
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)

// NewCellCoercer creates a coercer with the given config
func NewCellCoercer(config CoercionConfig) *CellCoercer {
	return &CellCoercer{config: config}
}

// CoerceValue deterministically converts a raw string to a cell
func (c *CellCoercer) CoerceValue(raw string) grid.Cell {
	s := strings.TrimSpace(raw)
	if s == "" || c.isNullToken(s) {
		return grid.Null()
	}
	if v, ok := c.tryParseNumeric(s); ok {
		return grid.Number(v)
	}
	if c.config.CollapseWhitespace {
		s = whitespaceRun.ReplaceAllString(s, " ")
	}
	return grid.Text(s)
}

// CoerceRows converts raw string rows to a grid
func (c *CellCoercer) CoerceRows(rows [][]string) grid.Grid {
	cells := make([][]grid.Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]grid.Cell, len(row))
		for i, raw := range row {
			cells[r][i] = c.CoerceValue(raw)
		}
	}
	return grid.New(cells)
}

// Analyze counts the cell kinds of a grid
func (c *CellCoercer) Analyze(g grid.Grid) TypeAnalysis {
	var a TypeAnalysis
	for r := 0; r < g.NumRows(); r++ {
		for col := 0; col < g.NumCols(); col++ {
			a.TotalCount++
			switch g.At(r, col).Kind {
			case grid.KindNumber:
				a.NumericCount++
			case grid.KindText:
				a.TextCount++
			default:
				a.NullCount++
			}
		}
	}
	if a.TotalCount > 0 {
		a.NumericRatio = float64(a.NumericCount) / float64(a.TotalCount)
	}
	return a
}

// tryParseNumeric attempts to parse as numeric with strict rules
func (c *CellCoercer) tryParseNumeric(s string) (float64, bool) {
	clean := s

	negative := false
	if c.config.ParenNegatives && strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSuffix(strings.TrimPrefix(clean, "("), ")")
		negative = true
	}

	hasComma := strings.Contains(clean, ",")
	hasPeriod := strings.Contains(clean, ".")
	switch {
	case hasComma && c.config.DecimalComma && !hasPeriod:
		clean = strings.ReplaceAll(clean, ",", ".")
	case hasComma && c.config.ThousandsSeparator:
		clean = strings.ReplaceAll(clean, ",", "")
	}

	if negative {
		clean = "-" + clean
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func (c *CellCoercer) isNullToken(s string) bool {
	for _, token := range c.config.NullTokens {
		if strings.EqualFold(s, token) {
			return true
		}
	}
	return false
}

// TypeAnalysis contains the cell kind counts of a grid
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	NullCount    int     `json:"null_count"`
	NumericCount int     `json:"numeric_count"`
	TextCount    int     `json:"text_count"`
	NumericRatio float64 `json:"numeric_ratio"`
}
