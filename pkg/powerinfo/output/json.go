package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes the Result as one indented JSON document.
type JSONFormatter struct{}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// JSONLFormatter writes one JSON object per setting, or per scheme when no
// settings were selected.
type JSONLFormatter struct{}

// Format implements Formatter.
func (f *JSONLFormatter) Format(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	if !r.HasSettings() {
		for _, s := range r.Schemes {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	}
	for _, v := range r.Settings() {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("json", func() Formatter { return &JSONFormatter{} })
	Register("jsonl", func() Formatter { return &JSONLFormatter{} })
}

var (
	_ Formatter = (*JSONFormatter)(nil)
	_ Formatter = (*JSONLFormatter)(nil)
)
