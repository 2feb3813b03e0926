package runner

import (
	"fmt"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// HistoryMarkdown renders history entries as a markdown table, most recent first.
func HistoryMarkdown(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "_No history yet._\n"
	}

	var b strings.Builder
	b.WriteString("| # | Expression | Result |\n")
	b.WriteString("|---|---|---|\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escapeCell(e.Expression), escapeCell(e.ResultText))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
