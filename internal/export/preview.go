package export

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	previewMu sync.Mutex
	// Keyed by style + wrap width. WithAutoStyle is avoided: its terminal
	// background query can block on some terminals.
	previewRenderers = map[string]*glamour.TermRenderer{}
)

// Preview renders markdown for display in a terminal. On renderer failure the
// markdown is returned unchanged.
func Preview(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := PreviewStyle()
	key := style + ":" + strconv.Itoa(width)

	previewMu.Lock()
	r := previewRenderers[key]
	previewMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		previewMu.Lock()
		if existing := previewRenderers[key]; existing != nil {
			r = existing
		} else {
			previewRenderers[key] = rr
			r = rr
		}
		previewMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// PreviewStyle is "light" or "dark", following OUTLINE_THEME (default dark).
func PreviewStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OUTLINE_THEME"))) {
	case "light":
		return "light"
	default:
		return "dark"
	}
}
