package output

import "bytes"

// TextFormatter renders a Report the way doctor prints it interactively:
// one line per check, with issues and notes indented beneath failures.
type TextFormatter struct {
	Styled bool
}

// Format writes the report to w.
func (f *TextFormatter) Format(w *bytes.Buffer, r *Report) error {
	out := NewReporter(w, f.Styled)

	out.Heading("lifeos " + r.Command)
	for _, n := range r.Notices {
		out.Muted(n)
	}

	for _, c := range r.Checks {
		if c.OK {
			out.Success(c.Name)
			continue
		}
		out.Warning(c.Name)
		for _, issue := range c.Issues {
			out.Item(issue)
		}
		for _, note := range c.Notes {
			out.Note(note)
		}
	}

	if r.OK {
		out.Success("System health: OK")
		return nil
	}
	out.Blank()
	out.Warning("Issues found")
	return nil
}

func init() {
	Register("pretty", func() Formatter {
		return &TextFormatter{Styled: true}
	})
	Register("plain", func() Formatter {
		return &TextFormatter{}
	})
}

var _ Formatter = (*TextFormatter)(nil)
