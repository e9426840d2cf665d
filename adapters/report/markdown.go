package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"survivalvolume/domain/survival"
	"survivalvolume/domain/table"
)

// MarkdownRenderer writes a human-readable study summary
type MarkdownRenderer struct{}

func (m *MarkdownRenderer) Format() string { return FormatMarkdown }

func (m *MarkdownRenderer) Render(w io.Writer, r *survival.StudyReport) error {
	if err := checkReport(FormatMarkdown, r); err != nil {
		return err
	}
	return writeAll(w, FormatMarkdown, []byte(buildMarkdown(r)))
}

func buildMarkdown(r *survival.StudyReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Tumour volume study: %s\n\n", r.Source)
	fmt.Fprintf(&sb, "- Report: `%s`\n", r.ID)
	fmt.Fprintf(&sb, "- Created: %s\n", r.CreatedAt)
	fmt.Fprintf(&sb, "- Layout: %s\n", r.Layout)
	p := r.Parameters
	fmt.Fprintf(&sb, "- Endpoint: %s mm³, threshold %d, %s interval at %s, alpha %s\n\n",
		num(p.Endpoint), p.Threshold, p.Method, num(p.CI), num(p.Alpha))

	for _, g := range r.Groups {
		writeGroup(&sb, g)
	}

	if len(r.Comparisons) > 0 {
		sb.WriteString("## Log-rank comparisons\n\n")
		sb.WriteString("| Group A | Group B | O(A) | E(A) | O(B) | E(B) | χ² | p | Significant |\n")
		sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, c := range r.Comparisons {
			fmt.Fprintf(&sb, "| %s | %s | %d | %s | %d | %s | %s | %s | %s |\n",
				c.GroupA, c.GroupB, c.ObservedA, num(c.ExpectedA), c.ObservedB, num(c.ExpectedB),
				num(c.TestStatistic), num(c.PValue), yesNo(c.Significant))
		}
		sb.WriteString("\n")
	}

	if len(r.Skipped) > 0 || len(r.Overwritten) > 0 {
		sb.WriteString("## Extraction notes\n\n")
		for _, s := range r.Skipped {
			name := s.Name
			if name == "" {
				name = "unnamed block"
			}
			fmt.Fprintf(&sb, "- Skipped %s (rows %d-%d): %s\n", name, s.FirstRow, s.LastRow, s.Reason)
		}
		for _, name := range r.Overwritten {
			fmt.Fprintf(&sb, "- Group %q appeared more than once; the last block was kept\n", name)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeGroup(sb *strings.Builder, g survival.GroupSummary) {
	fmt.Fprintf(sb, "## %s\n\n", g.Name)
	fmt.Fprintf(sb, "%d individuals over %d time points.\n\n", g.Individuals, g.Timepoints)

	if g.Table != nil && !g.Table.Empty() {
		writeVolumeTable(sb, g.Table)
	}

	if len(g.Intervals) > 0 {
		sb.WriteString("### Mean volume\n\n")
		sb.WriteString("| Day | n | Mean | Lower | Upper |\n|---|---|---|---|---|\n")
		for _, iv := range g.Intervals {
			fmt.Fprintf(sb, "| %s | %d | %s | %s | %s |\n", iv.Timepoint.Label, iv.N, num(iv.Mean), num(iv.Lower), num(iv.Upper))
		}
		sb.WriteString("\n")
	} else if len(g.Means) > 0 {
		sb.WriteString("### Mean volume\n\n")
		sb.WriteString("| Day | n | Mean |\n|---|---|---|\n")
		for _, m := range g.Means {
			fmt.Fprintf(sb, "| %s | %d | %s |\n", m.Timepoint.Label, m.N, num(m.Mean))
		}
		sb.WriteString("\n")
	}

	if len(g.Events) > 0 {
		sb.WriteString("### Events\n\n")
		fmt.Fprintf(sb, "%d of %d individuals censored.\n\n", g.Censored, len(g.Events))
		sb.WriteString("| Individual | Day | Endpoint reached |\n|---|---|---|\n")
		for _, e := range g.Events {
			fmt.Fprintf(sb, "| %s | %s | %s |\n", e.Individual, num(e.Time), yesNo(e.Observed))
		}
		sb.WriteString("\n")
	}

	if km := g.KaplanMeier; km != nil {
		fmt.Fprintf(sb, "### Survival\n\n%s\n\n", km)
		median := "not reached"
		if km.MedianSurvival != nil {
			median = "day " + num(*km.MedianSurvival)
		}
		fmt.Fprintf(sb, "Median survival: %s.\n\n", median)
		sb.WriteString("| Day | At risk | Events | Censored | S(t) |\n|---|---|---|---|---|\n")
		for _, s := range km.Steps {
			fmt.Fprintf(sb, "| %s | %d | %d | %d | %s |\n", num(s.Time), s.AtRisk, s.Events, s.Censored, num(s.Survival))
		}
		sb.WriteString("\n")
	}
}

func writeVolumeTable(sb *strings.Builder, t *table.Table) {
	sb.WriteString("### Volumes\n\n| Day |")
	for _, c := range t.Columns {
		fmt.Fprintf(sb, " %s |", c)
	}
	sb.WriteString("\n|---|")
	sb.WriteString(strings.Repeat("---|", t.NumCols()))
	sb.WriteString("\n")
	for r, tp := range t.Index {
		fmt.Fprintf(sb, "| %s |", tp.Label)
		for c := range t.Columns {
			fmt.Fprintf(sb, " %s |", num(t.At(r, c)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func num(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
