package extract

import (
	"survivalvolume/domain/core"
	"survivalvolume/domain/table"
	"survivalvolume/internal"
)

var logger = internal.DefaultLogger.With("extract")

// PrismLayout describes the wide-block ("Prism") export layout
type PrismLayout struct {
	StartMarker     string // column-0 text opening the tumour-volume section
	StartOccurrence int    // which occurrence of StartMarker opens the section (1-based)
	EndMarker       string // column-0 text closing the section
	NameColumn      int    // source column holding the group title
	IndexLabel      string // header naming the time column
	SummaryLabel    string // header of the derived summary column to discard
	MinBlockRows    int    // blocks shorter than this are noise; title, header and one day is the minimum
}

// DefaultPrismLayout returns the Studylog Prism export layout
func DefaultPrismLayout() PrismLayout {
	return PrismLayout{
		StartMarker:     "Tumor Volume (All Animals)",
		StartOccurrence: 2,
		EndMarker:       "Scatterplot information for Prism",
		NameColumn:      1,
		IndexLabel:      "Day",
		SummaryLabel:    "Mean",
		MinBlockRows:    3,
	}
}

// AbsoluteLayout describes the long grouped-row ("Absolute") export layout
type AbsoluteLayout struct {
	HeaderRow   int    // 0-based row holding column labels
	GroupColumn string // header of the grouping column
	IDColumn    string // header of the individual identifier column
	MetaColumns int    // leading non-measurement columns
}

// DefaultAbsoluteLayout returns the Studylog Absolute TV export layout
func DefaultAbsoluteLayout() AbsoluteLayout {
	return AbsoluteLayout{
		HeaderRow:   5,
		GroupColumn: "Group",
		IDColumn:    "Animal ID",
		MetaColumns: 3,
	}
}

// BlockResult is the outcome of cleaning one block or group. A skipped result
// carries the reason instead of a table; siblings are unaffected.
type BlockResult struct {
	FirstRow int    `json:"first_row"`
	LastRow  int    `json:"last_row"`
	Name     string `json:"name,omitempty"`
	Skipped  bool   `json:"skipped"`
	Reason   string `json:"reason,omitempty"`
	Err      error  `json:"-"`
}

// Extraction maps group names to cleaned tables.
//
// Name collisions overwrite: the last block with a given name wins, the name
// keeps its first position in Order and is listed in Overwritten.
type Extraction struct {
	Tables      map[string]*table.Table `json:"tables"`
	Order       []string                `json:"order"`
	Results     []BlockResult           `json:"results"`
	Overwritten []string                `json:"overwritten,omitempty"`
}

func newExtraction() *Extraction {
	return &Extraction{Tables: make(map[string]*table.Table)}
}

func (e *Extraction) put(name string, t *table.Table) {
	if _, exists := e.Tables[name]; exists {
		logger.Warn("group %q appears more than once, keeping the later table", name)
		e.Overwritten = append(e.Overwritten, name)
	} else {
		e.Order = append(e.Order, name)
	}
	e.Tables[name] = t
}

func (e *Extraction) skip(res BlockResult, reason string, err error) {
	res.Skipped = true
	res.Reason = reason
	res.Err = err
	logger.Debug("skipped rows %d-%d: %s", res.FirstRow, res.LastRow, reason)
	e.Results = append(e.Results, res)
}

// Len returns the number of extracted groups
func (e *Extraction) Len() int { return len(e.Order) }

// Get returns a group's table
func (e *Extraction) Get(name string) (*table.Table, error) {
	t, ok := e.Tables[name]
	if !ok {
		return nil, core.NewGroupNotFoundError(name)
	}
	return t, nil
}

// Groups returns the extracted groups in Order
func (e *Extraction) Groups() []table.Group {
	groups := make([]table.Group, 0, len(e.Order))
	for _, name := range e.Order {
		groups = append(groups, table.Group{Name: name, Table: e.Tables[name]})
	}
	return groups
}

// Skipped returns the results that did not produce a table
func (e *Extraction) Skipped() []BlockResult {
	var out []BlockResult
	for _, r := range e.Results {
		if r.Skipped {
			out = append(out, r)
		}
	}
	return out
}

// Standardise returns a copy whose tables carry an alternating day schedule
func (e *Extraction) Standardise(firstInterval, secondInterval float64) (*Extraction, error) {
	out := &Extraction{
		Tables:      make(map[string]*table.Table, len(e.Tables)),
		Order:       append([]string(nil), e.Order...),
		Results:     append([]BlockResult(nil), e.Results...),
		Overwritten: append([]string(nil), e.Overwritten...),
	}
	for name, t := range e.Tables {
		std, err := StandardiseDays(t, firstInterval, secondInterval)
		if err != nil {
			return nil, err
		}
		out.Tables[name] = std
	}
	return out, nil
}
