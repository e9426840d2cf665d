package ports

import (
	"io"

	"survivalvolume/domain/survival"
)

// ReportRenderer writes a study report in one output format
type ReportRenderer interface {
	Format() string
	Render(w io.Writer, report *survival.StudyReport) error
}
