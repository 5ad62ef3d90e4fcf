package output

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// YAMLFormatter writes the report as a YAML document.
type YAMLFormatter struct{}

// Format writes the report to w.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(normalize(r)); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

var _ Formatter = (*YAMLFormatter)(nil)
