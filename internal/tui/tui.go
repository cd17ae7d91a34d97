package tui

import (
	"context"

	"outline-cli/internal/logging"
	"outline-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Store *store.Store
	// Home is the database home; the session file lives there.
	Home      string
	ExportDir string
	Log       *logging.Log
}

// Run starts the interactive outline editor and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	applyGlyphPreference()

	m := newAppModel(ctx, opts)
	ch, closer, err := watchDB(opts.Store.Path())
	if err != nil {
		m.log.Warn().Err(err).Msg("database watch unavailable")
	} else {
		defer closer.Close()
		m.changes = ch
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
