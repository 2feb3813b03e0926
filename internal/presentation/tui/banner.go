package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"       _                          ", "#34d399"},
	{"  __ _| |__   __ _  ___ _   _ ___ ", "#2dd4bf"},
	{" / _` | '_ \\ / _` |/ __| | | / __|", "#22d3ee"},
	{"| (_| | |_) | (_| | (__| |_| \\__ \\", "#38bdf8"},
	{" \\__,_|_.__/ \\__,_|\\___|\\__,_|___/", "#60a5fa"},
}

// PrintBanner writes the abacus banner and a short hint line to w.
// Colours degrade to plain text for termenv.Ascii.
func PrintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	hint := fmt.Sprintf("  v%s  type an expression, :help for commands", version)
	fmt.Fprintln(w, p.String(hint).Faint())
	fmt.Fprintln(w)
}
