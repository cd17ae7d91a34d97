// Package logging builds the zerolog logger used by the command line and the TUI.
//
// Logs go to a file next to the database, never to the terminal, so they cannot
// interfere with command output or the TUI's screen.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	FileName   = "outline.log"
	permission = 0o644
)

// Build configures a logger. The zero value logs nothing.
type Build struct {
	writer io.Writer
	path   string
	level  string
	fields map[string]string
}

func New() *Build {
	return &Build{fields: map[string]string{}}
}

// FromDir logs to <dir>/outline.log.
func (b *Build) FromDir(dir string) *Build {
	if strings.TrimSpace(dir) != "" {
		b.path = filepath.Join(dir, FileName)
	}
	return b
}

func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// Level is a zerolog level name; unknown names fall back to info.
func (b *Build) Level(level string) *Build {
	b.level = level
	return b
}

func (b *Build) With(key, value string) *Build {
	b.fields[key] = value
	return b
}

// Log is a configured logger and the file it owns, if any.
type Log struct {
	zerolog.Logger
	RunID string
	file  *os.File
}

// Make opens the log destination. Every Log is tagged with a fresh run id so
// lines from one invocation can be grouped.
func (b *Build) Make() (*Log, error) {
	out := &Log{RunID: uuid.NewString()}

	var w io.Writer = b.writer
	if b.path != "" {
		if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		out.file = f
		w = zerolog.SyncWriter(f)
	}
	if w == nil {
		out.Logger = zerolog.Nop()
		return out, nil
	}

	ctx := zerolog.New(w).Level(ParseLevel(b.level)).With().Timestamp().Str("run", out.RunID)
	for k, v := range b.fields {
		ctx = ctx.Str(k, v)
	}
	out.Logger = ctx.Logger()
	return out, nil
}

func (l *Log) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Nop returns a logger that discards everything.
func Nop() *Log {
	return &Log{Logger: zerolog.Nop()}
}

func ParseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel
	}
	if s == "off" || s == "none" {
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
