package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles renders terminal output. Colours are dropped automatically when
// the writer is not a terminal.
type styles struct {
	title  lipgloss.Style
	lesson lipgloss.Style
	answer lipgloss.Style
	banner lipgloss.Style
	muted  lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:  r.NewStyle().Bold(true),
		lesson: r.NewStyle().Foreground(lipgloss.Color("12")),
		answer: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		banner: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		muted:  r.NewStyle().Faint(true),
	}
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatDue describes when a card is due relative to now.
func formatDue(due, now time.Time) string {
	if !due.After(now) {
		return "now"
	}
	d := due.Sub(now).Round(time.Minute)
	if d < time.Hour {
		return fmt.Sprintf("in %dm", int(d/time.Minute))
	}
	if h := d.Round(time.Hour); h < 24*time.Hour {
		return fmt.Sprintf("in %dh", int(h/time.Hour))
	}
	return fmt.Sprintf("in %dd", int(d.Round(24*time.Hour)/(24*time.Hour)))
}
