package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
)

// JSONFormatter writes the report as one indented JSON document.
type JSONFormatter struct{}

// Format writes the report to w.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(normalize(r))
}

// normalize returns a copy whose check list is never nil, so an empty run
// encodes as [] rather than null.
func normalize(r *Report) *Report {
	out := *r
	if out.Checks == nil {
		out.Checks = []checks.Outcome{}
	}
	return &out
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
