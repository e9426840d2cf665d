// Package report renders study reports as markdown, html, json or yaml.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"survivalvolume/domain/survival"
	"survivalvolume/internal/errors"
	"survivalvolume/ports"
)

const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var renderers = map[string]func() ports.ReportRenderer{
	FormatMarkdown: func() ports.ReportRenderer { return &MarkdownRenderer{} },
	FormatHTML:     func() ports.ReportRenderer { return &HTMLRenderer{} },
	FormatJSON:     func() ports.ReportRenderer { return &JSONRenderer{Indent: "  "} },
	FormatYAML:     func() ports.ReportRenderer { return &YAMLRenderer{} },
}

// NewRenderer returns the renderer registered for format
func NewRenderer(format string) (ports.ReportRenderer, error) {
	ctor, ok := renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("unknown report format %q (want one of %s)", format, strings.Join(Formats(), ", ")))
	}
	return ctor(), nil
}

// Formats lists the registered format names
func Formats() []string {
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension is the file extension conventionally used for format
func Extension(format string) string {
	switch format {
	case FormatMarkdown:
		return ".md"
	case FormatYAML:
		return ".yaml"
	default:
		return "." + format
	}
}

func checkReport(format string, r *survival.StudyReport) error {
	if r == nil {
		return errors.RenderError(format, fmt.Errorf("nil report"))
	}
	return nil
}

// writeAll copies b to w, reporting short writes as render errors
func writeAll(w io.Writer, format string, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return errors.RenderError(format, err)
	}
	return nil
}
