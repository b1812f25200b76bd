package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the parley ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text, color string
	}{
		{"                  _", "#818cf8"},
		{"  _ __   __ _ _ _| | ___ _  _", "#a78bfa"},
		{" | '_ \\ / _` | '_| |/ -_) || |", "#c084fc"},
		{" | .__/ \\__,_|_| |_|\\___|\\_, |", "#e879f9"},
		{" |_|                     |__/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
