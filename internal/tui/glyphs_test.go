package tui

import "testing"

func TestGlyphs_FromEnv(t *testing.T) {
	t.Setenv("OUTLINE_TUI_GLYPHS", "")
	setGlyphs(glyphSetUnicode)
	applyGlyphPreference()
	if got := glyphActive(); got != "▸" {
		t.Fatalf("expected unicode glyphs by default; got %q", got)
	}

	t.Setenv("OUTLINE_TUI_GLYPHS", "ascii")
	applyGlyphPreference()
	if got, sep := glyphActive(), glyphSep(); got != ">" || sep != "|" {
		t.Fatalf("expected ascii glyphs; got %q %q", got, sep)
	}

	// Unknown values keep the current set.
	t.Setenv("OUTLINE_TUI_GLYPHS", "bogus")
	applyGlyphPreference()
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected unknown to be ignored; got %v", got)
	}
	setGlyphs(glyphSetUnicode)
}
