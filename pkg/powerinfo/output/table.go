package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

var (
	settingColumns = []string{"SCHEME", "SUBGROUP", "SETTING", "AC", "DC", "GUID"}
	schemeColumns  = []string{"SCHEME", "ACTIVE", "GUID"}
)

// rows flattens r into table rows: one per setting, or one per scheme when
// no settings were selected.
func rows(r *Result) (header []string, body [][]string) {
	if !r.HasSettings() {
		for _, s := range r.Schemes {
			body = append(body, []string{s.Scheme.Name, strconv.FormatBool(s.Active), s.Scheme.GUID.String()})
		}
		return schemeColumns, body
	}
	for _, v := range r.Settings() {
		body = append(body, []string{v.SchemeName, v.SubgroupName, v.Name, v.ACValue, v.DCValue, v.Ref.Setting.String()})
	}
	return settingColumns, body
}

// TSVFormatter writes tab-separated rows with a header line.
type TSVFormatter struct{}

// Format implements Formatter.
func (f *TSVFormatter) Format(w io.Writer, r *Result) error {
	header, body := rows(r)
	ew := &errWriter{w: w}
	ew.printf("%s\n", strings.Join(header, "\t"))
	for _, row := range body {
		ew.printf("%s\n", strings.Join(row, "\t"))
	}
	return ew.err
}

// CSVFormatter writes RFC 4180 rows with a header line.
type CSVFormatter struct{}

// Format implements Formatter.
func (f *CSVFormatter) Format(w io.Writer, r *Result) error {
	header, body := rows(r)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(body); err != nil {
		return err
	}
	return cw.Error()
}

// MarkdownFormatter writes a GitHub-flavored Markdown table.
type MarkdownFormatter struct{}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(w io.Writer, r *Result) error {
	header, body := rows(r)
	ew := &errWriter{w: w}

	ew.printf("| %s |\n", strings.Join(header, " | "))
	ew.printf("|%s\n", strings.Repeat("---|", len(header)))
	for _, row := range body {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		ew.printf("| %s |\n", strings.Join(cells, " | "))
	}
	return ew.err
}

func init() {
	Register("tsv", func() Formatter { return &TSVFormatter{} })
	Register("csv", func() Formatter { return &CSVFormatter{} })
	Register("markdown", func() Formatter { return &MarkdownFormatter{} })
}

var (
	_ Formatter = (*TSVFormatter)(nil)
	_ Formatter = (*CSVFormatter)(nil)
	_ Formatter = (*MarkdownFormatter)(nil)
)
