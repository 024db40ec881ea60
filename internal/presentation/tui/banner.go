package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the NodeDialog banner and version to w using profile colors.
// termenv.Ascii yields plain text.
func PrintBanner(w io.Writer, profile termenv.Profile, version string) {
	lines := []struct {
		text  string
		color string
	}{
		{" _  _         _     ___  _      _           ", "#818cf8"},
		{"| \\| |___  __| |___|   \\(_)__ _| |___  __ _ ", "#a78bfa"},
		{"| .` / _ \\/ _` / -_) |) | / _` | / _ \\/ _` |", "#e879f9"},
		{"|_|\\_\\___/\\__,_\\___|___/|_\\__,_|_\\___/\\__, |", "#f472b6"},
		{"                                      |___/ ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(profile.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Foreground(profile.Color("#94a3b8")))
	}
	fmt.Fprintln(w)
}

// FormatOption renders one numbered choice option.
func FormatOption(profile termenv.Profile, n int, label string) string {
	num := termenv.String(fmt.Sprintf("%d)", n)).Foreground(profile.Color("#fbbf24"))
	return fmt.Sprintf("  %s %s", num, label)
}

// FormatPrompt renders the prompt line of a choice.
func FormatPrompt(profile termenv.Profile, prompt string) string {
	return termenv.String("? " + prompt).Foreground(profile.Color("#38bdf8")).String()
}
