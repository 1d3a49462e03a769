package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the waypoint banner to w.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	// Indigo to rose, one stop per line.
	lines := []struct{ text, color string }{
		{` _      __              _      __ `, "#818cf8"},
		{`| | /| / /__ ___ _____  ___  (_)__  / /_`, "#a78bfa"},
		{`| |/ |/ / _ ` + "`" + `/ // / _ \/ _ \/ / _ \/ __/`, "#e879f9"},
		{`|__/|__/\_,_/\_, / .__/\___/_/_//_/\__/ `, "#f472b6"},
		{`            /___/_/                    `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
