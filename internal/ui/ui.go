package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dshills/gyst/internal/gitrepo"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	renamedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
)

// Terminal reads answers from in and writes styled output to out/errOut.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// New returns a Terminal bound to the process's standard streams.
func New() *Terminal {
	return &Terminal{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewWithStreams returns a Terminal bound to the given streams.
func NewWithStreams(in io.Reader, out, errOut io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, errOut: errOut}
}

// Info prints a neutral status line.
func (t *Terminal) Info(msg string) {
	fmt.Fprintln(t.out, msg)
}

// Success prints a confirmation line.
func (t *Terminal) Success(msg string) {
	fmt.Fprintln(t.out, successStyle.Render("✓ "+msg))
}

// Warn prints a warning to the error stream.
func (t *Terminal) Warn(msg string) {
	fmt.Fprintln(t.errOut, warnStyle.Render("! "+msg))
}

// Error prints a failure to the error stream.
func (t *Terminal) Error(msg string) {
	fmt.Fprintln(t.errOut, errorStyle.Render("✗ "+msg))
}

// ShowMessage prints a labeled commit message block.
func (t *Terminal) ShowMessage(label, message string) {
	fmt.Fprintf(t.out, "\n%s\n%s\n\n", headerStyle.Render(label), messageStyle.Render(message))
}

// Confirm asks a yes/no question, defaulting to no.
func (t *Terminal) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N] ", question)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Decision is an interactive answer to a presented commit message.
type Decision int

const (
	DecisionAccept Decision = iota
	DecisionReject
	DecisionEdit
)

// AskDecision asks whether to use, reject, or edit the presented message.
// Accept is the default.
func (t *Terminal) AskDecision() (Decision, error) {
	fmt.Fprint(t.out, "Use this message? [Y/n/e(edit)] ")
	line, err := t.readLine()
	if err != nil {
		return DecisionReject, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return DecisionReject, nil
	case "e", "edit":
		return DecisionEdit, nil
	default:
		return DecisionAccept, nil
	}
}

// Select presents numbered items and reads a 1-based choice. Returns
// ok=false only when the user deliberately picks nothing (empty input or
// 0); a typo re-prompts instead of discarding the whole selection.
func (t *Terminal) Select(question string, items []string) (int, bool, error) {
	fmt.Fprintf(t.out, "\n%s\n", headerStyle.Render(question))
	for i, item := range items {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, item)
	}

	for {
		fmt.Fprintf(t.out, "Choice [1-%d, empty to skip]: ", len(items))

		line, err := t.readLine()
		if err != nil {
			return 0, false, err
		}
		line = strings.TrimSpace(line)
		if line == "" || line == "0" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(items) {
			t.Warn(fmt.Sprintf("enter a number between 1 and %d, or leave empty to skip", len(items)))
			continue
		}
		return n - 1, true, nil
	}
}

// ShowChanges prints the staged-change summary used by `gyst diff`.
func (t *Terminal) ShowChanges(changes gitrepo.ChangeSet, diff gitrepo.DiffText) {
	s := changes.Stats
	fmt.Fprintf(t.out, "%s\n", headerStyle.Render("Staged changes"))
	fmt.Fprintf(t.out, "%d %s, %s, %s\n",
		s.FilesChanged, plural(s.FilesChanged, "file", "files"),
		addedStyle.Render(fmt.Sprintf("%d insertions(+)", s.Insertions)),
		deletedStyle.Render(fmt.Sprintf("%d deletions(-)", s.Deletions)))

	renderList(t.out, "Added files:", addedStyle, "+", changes.Added)
	renderList(t.out, "Modified files:", warnStyle, "*", changes.Modified)
	renderList(t.out, "Deleted files:", deletedStyle, "-", changes.Deleted)

	if len(changes.Renamed) > 0 {
		fmt.Fprintf(t.out, "\n%s\n", headerStyle.Render("Renamed files:"))
		for _, r := range changes.Renamed {
			fmt.Fprintf(t.out, "  %s -> %s\n", r.Old, renamedStyle.Render(r.New))
		}
	}

	if diff.Truncated {
		t.Warn("diff shown to the AI is truncated at the configured line limit")
	}
}

// ShowExplanation prints a git command suggestion, styling the COMMAND,
// EXPLANATION, and NOTE section labels the backend was asked to emit.
// Text that does not follow the section format is printed as-is.
func (t *Terminal) ShowExplanation(text string) {
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		switch {
		case strings.HasPrefix(line, "COMMAND:"):
			fmt.Fprintf(t.out, "%s%s\n", headerStyle.Render("COMMAND:"), messageStyle.Render(strings.TrimPrefix(line, "COMMAND:")))
		case strings.HasPrefix(line, "EXPLANATION:"):
			fmt.Fprintf(t.out, "%s%s\n", headerStyle.Render("EXPLANATION:"), strings.TrimPrefix(line, "EXPLANATION:"))
		case strings.HasPrefix(line, "NOTE:"):
			fmt.Fprintf(t.out, "%s%s\n", warnStyle.Render("NOTE:"), strings.TrimPrefix(line, "NOTE:"))
		default:
			fmt.Fprintln(t.out, line)
		}
	}
}

func renderList(w io.Writer, title string, style lipgloss.Style, marker string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render(title))
	for _, item := range items {
		fmt.Fprintf(w, "  %s %s\n", marker, style.Render(item))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
