package tui

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// dbChangedMsg reports a write to the database file by any process.
type dbChangedMsg struct{}

// watchDB watches the database and its WAL for writes. Bursts are collapsed
// into one notification.
func watchDB(dbPath string) (<-chan struct{}, io.Closer, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(filepath.Dir(dbPath)); err != nil {
		_ = w.Close()
		return nil, nil, err
	}

	walFile := dbPath + "-wal"
	events := make(chan struct{}, 1)

	go func() {
		var (
			mu     sync.Mutex
			timer  *time.Timer
			closed bool
		)
		defer func() {
			mu.Lock()
			closed = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			close(events)
		}()

		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != dbPath && ev.Name != walFile {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(100*time.Millisecond, func() {
					mu.Lock()
					defer mu.Unlock()
					if closed {
						return
					}
					select {
					case events <- struct{}{}:
					default:
					}
				})
				mu.Unlock()
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, w, nil
}

// waitForChange blocks until the next database change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return dbChangedMsg{}
	}
}
