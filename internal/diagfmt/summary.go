package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bashrs/internal/diag"
)

var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	summaryErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summaryInfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	summaryStyleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Summary renders a one-line severity tally, boxed when color is on.
func Summary(w io.Writer, counts map[diag.Severity]int, colorize bool) {
	parts := []string{
		renderCount(counts[diag.SevError], "error", "errors", summaryErrStyle, colorize),
		renderCount(counts[diag.SevWarning], "warning", "warnings", summaryWarnStyle, colorize),
		renderCount(counts[diag.SevInfo], "info", "info", summaryInfoStyle, colorize),
		renderCount(counts[diag.SevStyle], "style", "style", summaryStyleStyle, colorize),
	}
	line := strings.Join(parts, ", ")
	if colorize {
		fmt.Fprintln(w, summaryBoxStyle.Render(line))
		return
	}
	fmt.Fprintln(w, line)
}

func renderCount(n int, singular, plural string, style lipgloss.Style, colorize bool) string {
	word := plural
	if n == 1 {
		word = singular
	}
	s := fmt.Sprintf("%d %s", n, word)
	if colorize && n > 0 {
		return style.Render(s)
	}
	return s
}
