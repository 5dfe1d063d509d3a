package output

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultTemplate prints one line per setting.
const DefaultTemplate = `{{range .Settings}}{{.SchemeName}}	{{.Name}}	{{.ACValue}}	{{.DCValue}}
{{end}}`

// TemplateFormatter renders a text/template against the Result.
//
// Besides the Result fields, templates can call Settings and these helpers:
// upper, lower, join, ago (humanized time), ordinal and comma.
type TemplateFormatter struct {
	text string
}

// NewTemplateFormatter returns a formatter for text.
func NewTemplateFormatter(text string) *TemplateFormatter {
	return &TemplateFormatter{text: text}
}

// TemplateFuncs is the function map available to templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper":   strings.ToUpper,
		"lower":   strings.ToLower,
		"join":    strings.Join,
		"ago":     func(t time.Time) string { return humanize.Time(t) },
		"ordinal": humanize.Ordinal,
		"comma":   func(n int) string { return humanize.Comma(int64(n)) },
	}
}

// Format implements Formatter.
func (f *TemplateFormatter) Format(w io.Writer, r *Result) error {
	tmpl, err := template.New("output").Funcs(TemplateFuncs()).Parse(f.text)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}

func init() {
	Register("template", func() Formatter { return NewTemplateFormatter(DefaultTemplate) })
}

var _ Formatter = (*TemplateFormatter)(nil)
