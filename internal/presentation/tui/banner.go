package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the errand banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Amber to red gradient
	lines := []struct {
		text  string
		color string
	}{
		{"   ___ _ __ _ __ __ _ _ __   __| |", "#fbbf24"},
		{"  / _ \\ '__| '__/ _` | '_ \\ / _` |", "#f59e0b"},
		{" |  __/ |  | | | (_| | | | | (_| |", "#f97316"},
		{"  \\___|_|  |_|  \\__,_|_| |_|\\__,_|", "#ef4444"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintf(w, "  %s\n\n", termenv.String("v"+strings.TrimSpace(version)).Faint())
}
