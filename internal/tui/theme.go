package tui

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The outline must stay readable on light and dark terminals, so colors are
// AdaptiveColor pairs and "faint" is only applied on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted      lipgloss.TerminalColor = ac("240", "243")
	colorAccent     lipgloss.TerminalColor = ac("27", "75")
	colorHeading    lipgloss.TerminalColor = ac("25", "81")
	colorSubheading lipgloss.TerminalColor = ac("30", "80")
	colorLineNo     lipgloss.TerminalColor = ac("28", "114")
	colorSelectedBg lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorError      lipgloss.TerminalColor = ac("160", "203")
	colorOK         lipgloss.TerminalColor = ac("28", "114")
	colorBarBg      lipgloss.TerminalColor = ac("252", "236")
	colorBarFg      lipgloss.TerminalColor = ac("235", "252")

	// Cursor colors in the line editor: plain in normal mode, red while inserting.
	colorCursorNormalBg lipgloss.TerminalColor = ac("235", "252")
	colorCursorNormalFg lipgloss.TerminalColor = ac("255", "235")
	colorCursorInsertBg lipgloss.TerminalColor = ac("160", "160")
	colorCursorInsertFg lipgloss.TerminalColor = ac("255", "255")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func styleHeading() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorHeading).Bold(true)
}

func styleSubheading() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorSubheading)
}

func styleLineNo() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorLineNo)
}

func styleSelected() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorSelectedBg)
}

func styleTitleBar() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorAccent).Foreground(lipgloss.Color("255")).Bold(true).Padding(0, 1)
}

func styleStatus(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(colorError).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(colorOK)
}

func styleCursor(insert bool) lipgloss.Style {
	if insert {
		return lipgloss.NewStyle().Background(colorCursorInsertBg).Foreground(colorCursorInsertFg)
	}
	return lipgloss.NewStyle().Background(colorCursorNormalBg).Foreground(colorCursorNormalFg)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile honors CLICOLOR/CLICOLOR_FORCE, which can switch colors
// off inside the TUI, so only NO_COLOR is respected here.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()

	// Trust TERM/COLORTERM when they claim more than the detector found.
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}

	lipgloss.SetColorProfile(profile)
}

// applyThemePreference configures background detection.
//
// Priority:
// 1) OUTLINE_THEME=light|dark|auto
// 2) COLORFGBG heuristic ("fg;bg")
// 3) macOS appearance
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("OUTLINE_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}

	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
			return
		}
	}

	if runtime.GOOS == "darwin" {
		if dark, ok := macOSHasDarkAppearance(); ok {
			lipgloss.SetHasDarkBackground(dark)
		}
	}
}

func macOSHasDarkAppearance() (dark bool, ok bool) {
	// Prints "Dark" in dark mode; exits 1 in light mode (key missing).
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").CombinedOutput()
	if ctx.Err() != nil {
		return false, false
	}
	if err == nil {
		return strings.Contains(strings.ToLower(string(out)), "dark"), true
	}
	if ee, ok := err.(*exec.ExitError); ok && ee.ExitCode() == 1 {
		return false, true
	}
	return false, false
}
