package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"

	"survivalvolume/domain/survival"
	"survivalvolume/internal/errors"
)

// HTMLRenderer converts the markdown summary into a standalone page
type HTMLRenderer struct{}

func (h *HTMLRenderer) Format() string { return FormatHTML }

func (h *HTMLRenderer) Render(w io.Writer, r *survival.StudyReport) error {
	if err := checkReport(FormatHTML, r); err != nil {
		return err
	}

	// Parsers are single use
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Tumour volume study: " + r.Source,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return writeAll(w, FormatHTML, markdown.ToHTML([]byte(buildMarkdown(r)), p, renderer))
}

// JSONRenderer writes the full report, cleaned tables included
type JSONRenderer struct {
	Indent string
}

func (j *JSONRenderer) Format() string { return FormatJSON }

func (j *JSONRenderer) Render(w io.Writer, r *survival.StudyReport) error {
	if err := checkReport(FormatJSON, r); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(r); err != nil {
		return errors.RenderError(FormatJSON, err)
	}
	return writeAll(w, FormatJSON, buf.Bytes())
}

// YAMLRenderer writes the report without the raw volume tables
type YAMLRenderer struct{}

func (y *YAMLRenderer) Format() string { return FormatYAML }

func (y *YAMLRenderer) Render(w io.Writer, r *survival.StudyReport) error {
	if err := checkReport(FormatYAML, r); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return errors.RenderError(FormatYAML, err)
	}
	if err := enc.Close(); err != nil {
		return errors.RenderError(FormatYAML, err)
	}
	return writeAll(w, FormatYAML, buf.Bytes())
}
