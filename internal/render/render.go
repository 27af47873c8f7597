// Package render formats conversation output for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/longkey1/gemchat/internal/gemchat"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	modelLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Options controls how a Renderer writes turns.
type Options struct {
	// Markdown enables glamour rendering of model responses.
	Markdown bool
	// Styled enables lipgloss role labels and colors.
	Styled bool
	// WordWrap is the glamour wrap width; 0 disables wrapping.
	WordWrap int
}

// Renderer writes turns and outcomes to an output stream.
type Renderer struct {
	out      io.Writer
	opts     Options
	markdown *glamour.TermRenderer
}

// New returns a Renderer that writes to out. Markdown rendering silently
// falls back to plain text if glamour cannot be initialized.
func New(out io.Writer, opts Options) *Renderer {
	r := &Renderer{out: out, opts: opts}
	if opts.Markdown {
		tr, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(opts.WordWrap),
		)
		if err == nil {
			r.markdown = tr
		}
	}
	return r
}

// ForStdout returns a Renderer for os.Stdout. Styling and markdown are only
// enabled when stdout is a terminal so piped output stays plain.
func ForStdout(markdown bool, wordWrap int) *Renderer {
	tty := IsTerminal(os.Stdout)
	return New(os.Stdout, Options{
		Markdown: markdown && tty,
		Styled:   tty,
		WordWrap: wordWrap,
	})
}

// Markdown renders content through glamour, returning it unchanged when
// rendering is off or fails.
func (r *Renderer) Markdown(content string) string {
	if r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// Label returns the role label used in transcripts and prompts.
func (r *Renderer) Label(role string) string {
	var label string
	style := modelLabelStyle
	switch role {
	case gemchat.RoleUser:
		label = "You>"
		style = userLabelStyle
	case gemchat.RoleModel:
		label = "Model>"
	default:
		label = role + ">"
	}
	if !r.opts.Styled {
		return label
	}
	return style.Render(label)
}

// Outcome writes the display line of an outcome. Only responses go through
// markdown; failures are printed as a single line.
func (r *Renderer) Outcome(outcome gemchat.Outcome) {
	line := outcome.DisplayLine()
	if outcome.IsFailure() {
		if r.opts.Styled {
			line = failureStyle.Render(line)
		}
		fmt.Fprintln(r.out, line)
		return
	}
	r.writeBody(line)
}

// Turn writes a stored turn with its role label.
func (r *Renderer) Turn(turn gemchat.Turn) {
	fmt.Fprintln(r.out, r.Label(turn.Role))
	if turn.Role == gemchat.RoleModel {
		r.writeBody(turn.Content)
	} else {
		fmt.Fprintln(r.out, turn.Content)
	}
	fmt.Fprintln(r.out)
}

// Muted writes a secondary informational line.
func (r *Renderer) Muted(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if r.opts.Styled {
		line = mutedStyle.Render(line)
	}
	fmt.Fprintln(r.out, line)
}

func (r *Renderer) writeBody(text string) {
	body := r.Markdown(text)
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	fmt.Fprint(r.out, body)
}
