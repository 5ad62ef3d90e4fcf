package output

import (
	"fmt"
	"io"

	"github.com/jamesainslie/lifeos/pkg/lifeos/report"
)

// Status markers prefixed to result lines.
const (
	MarkPass = "✔"
	MarkWarn = "⚠"
	MarkSkip = "↷"
)

// Reporter writes line-oriented command output. Commands get one injected
// rather than printing to a global console.
type Reporter interface {
	// Heading prints the command banner.
	Heading(text string)
	// Muted prints a de-emphasized line.
	Muted(text string)
	// Success prints a line prefixed with the pass mark.
	Success(text string)
	// Warning prints a line prefixed with the warning mark.
	Warning(text string)
	// Skipped prints a line prefixed with the skip mark.
	Skipped(text string)
	// Item prints an indented bullet.
	Item(text string)
	// Note prints an indented, de-emphasized bullet.
	Note(text string)
	// Step prints the one-line summary of a cleanup step.
	Step(label string, s report.Summary)
	// Blank prints an empty line.
	Blank()
}

type console struct {
	w io.Writer
	p palette
}

// NewReporter returns a Reporter writing to w. styled selects lipgloss
// colors; otherwise output is plain text.
func NewReporter(w io.Writer, styled bool) Reporter {
	p := plainPalette
	if styled {
		p = prettyPalette
	}
	return &console{w: w, p: p}
}

func (c *console) println(s string) {
	fmt.Fprintln(c.w, s)
}

func (c *console) Heading(text string) { c.println(c.p.title(text)) }
func (c *console) Muted(text string)   { c.println(c.p.muted(text)) }
func (c *console) Success(text string) { c.println(c.p.success(MarkPass + " " + text)) }
func (c *console) Warning(text string) { c.println(c.p.warning(MarkWarn + " " + text)) }
func (c *console) Skipped(text string) { c.println(c.p.info(MarkSkip + " " + text)) }
func (c *console) Item(text string)    { c.println("  - " + text) }
func (c *console) Note(text string)    { c.println("  " + c.p.muted("- "+text)) }
func (c *console) Blank()              { c.println("") }

func (c *console) Step(label string, s report.Summary) {
	c.println(fmt.Sprintf("%s: %d items (%s) [trash: %d, might-need: %d]",
		label, s.Count, c.p.size(report.Humanize(s.TotalSize)), s.TrashCount, s.MightNeedCount))
}

var _ Reporter = (*console)(nil)
