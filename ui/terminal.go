package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const sectionWidth = 50

// TerminalUI is the production UI implementation.
type TerminalUI struct {
	out         io.Writer
	au          aurora.Aurora
	interactive bool
}

// NewTerminalUI creates a TerminalUI writing to os.Stdout. Colours and the
// spinner are enabled only when stdout is a real terminal.
func NewTerminalUI() *TerminalUI {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	return NewTerminalUIWithWriter(os.Stdout, isTTY)
}

func NewTerminalUIWithWriter(out io.Writer, interactive bool) *TerminalUI {
	return &TerminalUI{
		out:         out,
		au:          aurora.NewAurora(interactive),
		interactive: interactive,
	}
}

func (u *TerminalUI) writeLine(line string) {
	fmt.Fprintf(u.out, "%s\n", line)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	default:
		return t.Text
	}
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.writeLine(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	u.writeLine(u.au.Green(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	u.writeLine(u.au.Yellow(fmt.Sprintf(format, args...)).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	u.writeLine(u.au.Red(fmt.Sprintf(format, args...)).String())
}

// Section prints a separator line centred around the title.
//
//	===== Token URI =====
func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := sectionWidth - len(titled)
	if bars < 6 {
		bars = 6
	}
	left := bars / 2
	right := bars - left
	fmt.Fprintf(u.out, "\n%s%s%s\n\n", strings.Repeat("=", left), titled, strings.Repeat("=", right))
}

func (u *TerminalUI) KeyValue(rows [][2]string) {
	maxLabel := 0
	for _, r := range rows {
		if len(r[0]) > maxLabel {
			maxLabel = len(r[0])
		}
	}
	for _, r := range rows {
		fmt.Fprintf(u.out, "%-*s  %s\n", maxLabel, r[0], r[1])
	}
}

// Table renders a bordered table. Column widths ignore ANSI colour codes
// embedded by Style.
func (u *TerminalUI) Table(headers []string, rows [][]string) {
	ncols := len(headers)
	for _, r := range rows {
		if len(r) > ncols {
			ncols = len(r)
		}
	}
	if ncols == 0 {
		return
	}

	cellWidth := func(s string) int {
		return runewidth.StringWidth(ansi.Strip(s))
	}
	widths := make([]int, ncols)
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := cellWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	border := func(s string) string { return borderStyle.Render(s) }

	dashes := make([]string, ncols)
	for i, w := range widths {
		dashes[i] = strings.Repeat("─", w+2)
	}
	renderRow := func(cells []string) string {
		parts := make([]string, ncols)
		for i := 0; i < ncols; i++ {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			parts[i] = " " + val + strings.Repeat(" ", widths[i]-cellWidth(val)) + " "
		}
		return border("│") + strings.Join(parts, border("│")) + border("│")
	}

	u.writeLine(border("┌" + strings.Join(dashes, "┬") + "┐"))
	if len(headers) > 0 {
		u.writeLine(renderRow(headers))
		u.writeLine(border("├" + strings.Join(dashes, "┼") + "┤"))
	}
	for _, row := range rows {
		u.writeLine(renderRow(row))
	}
	u.writeLine(border("└" + strings.Join(dashes, "┴") + "┘"))
}

func (u *TerminalUI) Spinner(msg string) func() {
	if !u.interactive {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
	}
}

func (u *TerminalUI) Writer() io.Writer {
	return u.out
}
