package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/lifeos/pkg/lifeos/output"
)

// Choice is the answer to a cleanup step prompt.
type Choice int

const (
	// ChoiceSkip leaves every item of the step in place.
	ChoiceSkip Choice = iota
	// ChoiceAll relocates every item of the step.
	ChoiceAll
	// ChoiceTrashOnly relocates only items classified as trash.
	ChoiceTrashOnly
)

func (c Choice) String() string {
	switch c {
	case ChoiceAll:
		return "y"
	case ChoiceTrashOnly:
		return "s"
	default:
		return "n"
	}
}

var errAborted = errors.New("cleanup aborted")

// Prompter asks whether to go ahead with a cleanup step.
type Prompter interface {
	Confirm(label string) (Choice, error)
}

func promptText(label string) string {
	return fmt.Sprintf("Proceed with %s? (y/n/s=safe-only) ", label)
}

func parseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return ChoiceAll, true
	case "n", "no":
		return ChoiceSkip, true
	case "s", "t":
		return ChoiceTrashOnly, true
	}
	return ChoiceSkip, false
}

// newPrompter returns an interactive prompt on a terminal and a line-based
// one otherwise.
func newPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return &teaPrompter{in: f, out: out}
	}
	return newLinePrompter(in, out)
}

// linePrompter reads one answer per line. End of input skips the step.
type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{r: bufio.NewReader(in), w: out}
}

func (p *linePrompter) Confirm(label string) (Choice, error) {
	for {
		fmt.Fprint(p.w, promptText(label))
		line, err := p.r.ReadString('\n')
		if choice, ok := parseChoice(line); ok {
			return choice, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.w)
			return ChoiceSkip, nil
		}
		if err != nil {
			return ChoiceSkip, fmt.Errorf("reading answer: %w", err)
		}
		fmt.Fprintln(p.w, "Please enter y, n, or s.")
	}
}

type confirmKeyMap struct {
	Yes      key.Binding
	No       key.Binding
	SafeOnly key.Binding
	Abort    key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "move all"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n", "skip"),
	),
	SafeOnly: key.NewBinding(
		key.WithKeys("s", "S", "t"),
		key.WithHelp("s", "trash only"),
	),
	Abort: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
}

// confirmModel is a single-keystroke y/n/s prompt.
type confirmModel struct {
	label   string
	choice  Choice
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, confirmKeys.Abort):
		m.aborted = true
	case key.Matches(km, confirmKeys.Yes):
		m.choice = ChoiceAll
	case key.Matches(km, confirmKeys.No):
		m.choice = ChoiceSkip
	case key.Matches(km, confirmKeys.SafeOnly):
		m.choice = ChoiceTrashOnly
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	prompt := promptText(m.label)
	switch {
	case m.aborted:
		return prompt + "\n"
	case m.done:
		return prompt + m.choice.String() + "\n"
	}
	return prompt + output.MutedStyle.Render("y move all · n skip · s trash only")
}

// teaPrompter runs confirmModel on the terminal.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *teaPrompter) Confirm(label string) (Choice, error) {
	final, err := tea.NewProgram(
		confirmModel{label: label},
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	).Run()
	if err != nil {
		return ChoiceSkip, fmt.Errorf("prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok || m.aborted {
		return ChoiceSkip, errAborted
	}
	return m.choice, nil
}
