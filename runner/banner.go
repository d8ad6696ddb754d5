package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultBannerWidth = 80
	minBannerWidth     = 20
)

var bannerMessages = []string{
	"🏢 recherche-entreprises",
	"Data: API Recherche d'entreprises (annuaire-entreprises.data.gouv.fr), Licence Ouverte 2.0",
}

// wrapText splits text into chunks of at most width display columns.
func wrapText(text string, width int) []string {
	var (
		lines []string
		line  strings.Builder
		used  int
	)

	for _, r := range text {
		w := runewidth.RuneWidth(r)

		if used+w > width && line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()

			used = 0
		}

		line.WriteRune(r)
		used += w
	}

	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return lines
}

// terminalWidth returns the width of the terminal behind w, or 0 when w is
// not a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}

	return width
}

// banner frames messages in a box of the given width. A width <= 0 falls
// back to 80 columns.
func banner(messages []string, width int) string {
	if width <= 0 {
		width = defaultBannerWidth
	}

	width = max(width, minBannerWidth)
	inner := width - 4
	edge := strings.Repeat("═", width-2)

	var sb strings.Builder

	sb.WriteString("╔" + edge + "╗\n")

	for _, message := range messages {
		for _, line := range wrapText(message, inner) {
			pad := max(inner-runewidth.StringWidth(line), 0)
			fmt.Fprintf(&sb, "║ %s%s ║\n", line, strings.Repeat(" ", pad))
		}
	}

	sb.WriteString("╚" + edge + "╝\n")

	return sb.String()
}

// Banner writes the startup banner to w, sized to w when it is a terminal.
func Banner(w io.Writer) {
	fmt.Fprintln(w, banner(bannerMessages, terminalWidth(w)))
}
