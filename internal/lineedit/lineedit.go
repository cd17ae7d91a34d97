// Package lineedit is a two-mode (normal/insert) editor for a single line of text.
//
// The editor is a pure transition function: Step takes a state and one key and
// returns the next state plus an outcome. Callers own the input loop; Run is a
// small convenience loop over a KeySource.
package lineedit

import "unicode"

type Mode int

const (
	Normal Mode = iota
	Insert
)

func (m Mode) String() string {
	switch m {
	case Insert:
		return "insert"
	default:
		return "normal"
	}
}

type KeyType int

const (
	KeyRune KeyType = iota
	KeyLeft
	KeyRight
	KeyBackspace
	KeyEscape
	KeyEnter
)

// Key is one keystroke. Rune is only meaningful for KeyRune.
type Key struct {
	Type KeyType
	Rune rune
}

func Rune(r rune) Key { return Key{Type: KeyRune, Rune: r} }

var (
	Left      = Key{Type: KeyLeft}
	Right     = Key{Type: KeyRight}
	Backspace = Key{Type: KeyBackspace}
	Escape    = Key{Type: KeyEscape}
	Enter     = Key{Type: KeyEnter}
)

// Outcome tells the caller whether editing continues.
type Outcome int

const (
	Pending Outcome = iota
	Committed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// State is the editor's full state. Cursor is always within [0, len(Buffer)].
type State struct {
	Mode   Mode
	Buffer []rune
	Cursor int
}

// New returns the initial state for text: normal mode, cursor at the start or end.
// Control characters in text are dropped.
func New(text string, cursorAtEnd bool) State {
	buf := make([]rune, 0, len(text))
	for _, r := range text {
		if printable(r) {
			buf = append(buf, r)
		}
	}
	st := State{Mode: Normal, Buffer: buf}
	if cursorAtEnd {
		st.Cursor = len(buf)
	}
	return st
}

func (s State) Text() string { return string(s.Buffer) }

// Step applies one key. It never modifies s.Buffer in place.
func Step(s State, k Key) (State, Outcome) {
	s.Cursor = clamp(s.Cursor, 0, len(s.Buffer))
	if s.Mode == Insert {
		return stepInsert(s, k)
	}
	return stepNormal(s, k)
}

func stepNormal(s State, k Key) (State, Outcome) {
	switch k.Type {
	case KeyEscape, KeyEnter:
		return s, Committed
	case KeyLeft:
		s.Cursor = clamp(s.Cursor-1, 0, len(s.Buffer))
		return s, Pending
	case KeyRight:
		s.Cursor = clamp(s.Cursor+1, 0, len(s.Buffer))
		return s, Pending
	case KeyRune:
	default:
		return s, Pending
	}

	switch k.Rune {
	case 'i':
		s.Mode = Insert
	case 'a':
		s.Cursor = clamp(s.Cursor+1, 0, len(s.Buffer))
		s.Mode = Insert
	case 'A':
		s.Cursor = len(s.Buffer)
		s.Mode = Insert
	case 'I':
		s.Cursor = 0
		s.Mode = Insert
	case 'h':
		s.Cursor = clamp(s.Cursor-1, 0, len(s.Buffer))
	case 'l':
		s.Cursor = clamp(s.Cursor+1, 0, len(s.Buffer))
	case '0':
		s.Cursor = 0
	case '$':
		s.Cursor = len(s.Buffer)
	case 'x':
		if s.Cursor < len(s.Buffer) {
			s.Buffer = splice(s.Buffer, s.Cursor, s.Cursor+1, nil)
			s.Cursor = clamp(s.Cursor, 0, len(s.Buffer))
		}
	case 'd':
		if end := wordEnd(s.Buffer, s.Cursor); end > s.Cursor {
			s.Buffer = splice(s.Buffer, s.Cursor, end, nil)
			s.Cursor = clamp(s.Cursor, 0, len(s.Buffer))
		}
	case 'q':
		return s, Cancelled
	}
	return s, Pending
}

func stepInsert(s State, k Key) (State, Outcome) {
	switch k.Type {
	case KeyEscape:
		s.Mode = Normal
	case KeyEnter:
		return s, Committed
	case KeyBackspace:
		if s.Cursor > 0 {
			s.Buffer = splice(s.Buffer, s.Cursor-1, s.Cursor, nil)
			s.Cursor--
		}
	case KeyRune:
		if printable(k.Rune) {
			s.Buffer = splice(s.Buffer, s.Cursor, s.Cursor, []rune{k.Rune})
			s.Cursor++
		}
	}
	return s, Pending
}

// wordEnd returns the end of the word at or after pos plus its trailing spaces.
func wordEnd(buf []rune, pos int) int {
	i := pos
	for i < len(buf) && unicode.IsSpace(buf[i]) {
		i++
	}
	for i < len(buf) && !unicode.IsSpace(buf[i]) {
		i++
	}
	for i < len(buf) && unicode.IsSpace(buf[i]) {
		i++
	}
	return i
}

// splice returns a new slice with buf[from:to] replaced by ins.
func splice(buf []rune, from, to int, ins []rune) []rune {
	out := make([]rune, 0, len(buf)-(to-from)+len(ins))
	out = append(out, buf[:from]...)
	out = append(out, ins...)
	return append(out, buf[to:]...)
}

func printable(r rune) bool {
	return !unicode.IsControl(r) && unicode.IsPrint(r)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
