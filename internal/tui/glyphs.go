package tui

import (
	"os"
	"strings"
	"sync"
)

// Some terminal fonts render the Unicode markers poorly; OUTLINE_TUI_GLYPHS=ascii
// switches to plain ASCII.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OUTLINE_TUI_GLYPHS"))) {
	case "", "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

// glyphActive marks the active project in the project list.
func glyphActive() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphSep() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "·"
}
