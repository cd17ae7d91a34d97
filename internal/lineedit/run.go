package lineedit

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// KeySource supplies keystrokes one at a time. NextKey blocks until a key is
// available and returns io.EOF when the input ends.
type KeySource interface {
	NextKey() (Key, error)
}

// ErrInputEnded is returned by Run when the key source ends before the edit
// is committed or cancelled.
var ErrInputEnded = errors.New("input ended before the edit was committed")

// Result is the terminal outcome of a Run. Text is the committed text, or the
// initial text when the edit was cancelled.
type Result struct {
	Outcome Outcome
	Text    string
}

func (r Result) Committed() bool { return r.Outcome == Committed }

type runConfig struct {
	atEnd    bool
	observer func(State)
}

type Option func(*runConfig)

// WithCursorAtEnd starts the cursor after the last character.
func WithCursorAtEnd() Option {
	return func(c *runConfig) { c.atEnd = true }
}

// WithObserver is called with the initial state and after every key, so the
// caller can redraw.
func WithObserver(fn func(State)) Option {
	return func(c *runConfig) { c.observer = fn }
}

// Run edits initial with keys from src until the edit commits or is cancelled.
func Run(initial string, src KeySource, opts ...Option) (Result, error) {
	cfg := runConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	st := New(initial, cfg.atEnd)
	if cfg.observer != nil {
		cfg.observer(st)
	}
	for {
		k, err := src.NextKey()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = ErrInputEnded
			}
			return Result{Outcome: Cancelled, Text: initial}, err
		}
		var out Outcome
		st, out = Step(st, k)
		if cfg.observer != nil {
			cfg.observer(st)
		}
		switch out {
		case Committed:
			return Result{Outcome: Committed, Text: st.Text()}, nil
		case Cancelled:
			return Result{Outcome: Cancelled, Text: initial}, nil
		}
	}
}

// Script is a KeySource over a fixed key sequence.
type Script struct {
	keys []Key
	pos  int
}

func Keys(keys ...Key) *Script {
	return &Script{keys: keys}
}

func (s *Script) NextKey() (Key, error) {
	if s.pos >= len(s.keys) {
		return Key{}, io.EOF
	}
	k := s.keys[s.pos]
	s.pos++
	return k, nil
}

// Len returns the number of keys not yet consumed.
func (s *Script) Len() int { return len(s.keys) - s.pos }

var namedKeys = map[string]Key{
	"esc":       Escape,
	"escape":    Escape,
	"cr":        Enter,
	"enter":     Enter,
	"ret":       Enter,
	"bs":        Backspace,
	"backspace": Backspace,
	"left":      Left,
	"right":     Right,
	"lt":        Rune('<'),
	"space":     Rune(' '),
}

// StringKeys parses a key script. Plain characters are typed as-is; special keys
// use angle-bracket names: <esc> <cr> <bs> <left> <right> <space>, and <lt> for a
// literal '<'. Names are case-insensitive.
//
//	StringKeys("0diHi <esc><cr>")
func StringKeys(script string) (*Script, error) {
	var keys []Key
	rs := []rune(script)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '<' {
			keys = append(keys, Rune(r))
			continue
		}
		end := -1
		for j := i + 1; j < len(rs); j++ {
			if rs[j] == '>' {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, fmt.Errorf("key script: unterminated '<' at offset %d", i)
		}
		name := strings.ToLower(string(rs[i+1 : end]))
		k, ok := namedKeys[name]
		if !ok {
			return nil, fmt.Errorf("key script: unknown key <%s>", name)
		}
		keys = append(keys, k)
		i = end
	}
	return &Script{keys: keys}, nil
}
