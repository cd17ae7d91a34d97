package lineedit

import (
	"errors"
	"testing"
)

func typeText(s string) []Key {
	var out []Key
	for _, r := range s {
		out = append(out, Rune(r))
	}
	return out
}

func stepAll(t *testing.T, st State, keys ...Key) (State, Outcome) {
	t.Helper()
	out := Pending
	for i, k := range keys {
		if out != Pending {
			t.Fatalf("key %d sent after terminal outcome %v", i, out)
		}
		st, out = Step(st, k)
		if st.Cursor < 0 || st.Cursor > len(st.Buffer) {
			t.Fatalf("cursor %d out of range after key %d (%q)", st.Cursor, i, string(st.Buffer))
		}
	}
	return st, out
}

func TestStep_NormalMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		text       string
		cursor     int
		keys       []Key
		wantText   string
		wantCursor int
		wantMode   Mode
	}{
		{name: "i enters insert", text: "abc", cursor: 1, keys: []Key{Rune('i')}, wantText: "abc", wantCursor: 1, wantMode: Insert},
		{name: "a advances", text: "abc", cursor: 1, keys: []Key{Rune('a')}, wantText: "abc", wantCursor: 2, wantMode: Insert},
		{name: "a clamps at end", text: "abc", cursor: 3, keys: []Key{Rune('a')}, wantText: "abc", wantCursor: 3, wantMode: Insert},
		{name: "A goes to end", text: "abc", cursor: 0, keys: []Key{Rune('A')}, wantText: "abc", wantCursor: 3, wantMode: Insert},
		{name: "I goes to start", text: "abc", cursor: 2, keys: []Key{Rune('I')}, wantText: "abc", wantCursor: 0, wantMode: Insert},
		{name: "h floors at zero", text: "abc", cursor: 0, keys: []Key{Rune('h')}, wantText: "abc", wantCursor: 0},
		{name: "left arrow", text: "abc", cursor: 2, keys: []Key{Left}, wantText: "abc", wantCursor: 1},
		{name: "l ceilings at len", text: "abc", cursor: 3, keys: []Key{Rune('l')}, wantText: "abc", wantCursor: 3},
		{name: "right arrow", text: "abc", cursor: 0, keys: []Key{Right, Right}, wantText: "abc", wantCursor: 2},
		{name: "0 and $", text: "abc", cursor: 1, keys: []Key{Rune('$')}, wantText: "abc", wantCursor: 3},
		{name: "zero", text: "abc", cursor: 2, keys: []Key{Rune('0')}, wantText: "abc", wantCursor: 0},
		{name: "x deletes under cursor", text: "abc", cursor: 1, keys: []Key{Rune('x')}, wantText: "ac", wantCursor: 1},
		{name: "x on last char", text: "abc", cursor: 2, keys: []Key{Rune('x')}, wantText: "ab", wantCursor: 2},
		{name: "x at end is a no-op", text: "abc", cursor: 3, keys: []Key{Rune('x')}, wantText: "abc", wantCursor: 3},
		{name: "x on empty", text: "", cursor: 0, keys: []Key{Rune('x')}, wantText: "", wantCursor: 0},
		{name: "d deletes word and trailing space", text: "Hello world", cursor: 0, keys: []Key{Rune('d')}, wantText: "world", wantCursor: 0},
		{name: "d from mid word", text: "Hello big world", cursor: 8, keys: []Key{Rune('d')}, wantText: "Hello biworld", wantCursor: 8},
		{name: "d on space takes next word", text: "one  two three", cursor: 3, keys: []Key{Rune('d')}, wantText: "onethree", wantCursor: 3},
		{name: "d last word", text: "one two", cursor: 4, keys: []Key{Rune('d')}, wantText: "one ", wantCursor: 4},
		{name: "d at end is a no-op", text: "one", cursor: 3, keys: []Key{Rune('d')}, wantText: "one", wantCursor: 3},
		{name: "unknown keys ignored", text: "abc", cursor: 1, keys: []Key{Rune('z'), Backspace, Rune('Q')}, wantText: "abc", wantCursor: 1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			st := New(tc.text, false)
			st.Cursor = tc.cursor
			st, out := stepAll(t, st, tc.keys...)
			if out != Pending {
				t.Fatalf("expected pending, got %v", out)
			}
			if got := st.Text(); got != tc.wantText {
				t.Fatalf("text: expected %q, got %q", tc.wantText, got)
			}
			if st.Cursor != tc.wantCursor {
				t.Fatalf("cursor: expected %d, got %d", tc.wantCursor, st.Cursor)
			}
			if st.Mode != tc.wantMode {
				t.Fatalf("mode: expected %v, got %v", tc.wantMode, st.Mode)
			}
		})
	}
}

func TestStep_TerminalOutcomes(t *testing.T) {
	t.Parallel()

	st := New("abc", false)
	for _, k := range []Key{Escape, Enter} {
		if _, out := Step(st, k); out != Committed {
			t.Fatalf("expected %v to commit in normal mode, got %v", k, out)
		}
	}
	if _, out := Step(st, Rune('q')); out != Cancelled {
		t.Fatalf("expected q to cancel, got %v", out)
	}

	ins, _ := Step(st, Rune('i'))
	if _, out := Step(ins, Enter); out != Committed {
		t.Fatalf("expected enter to commit in insert mode, got %v", out)
	}
	back, out := Step(ins, Escape)
	if out != Pending || back.Mode != Normal {
		t.Fatalf("expected escape to return to normal, got mode=%v out=%v", back.Mode, out)
	}
	if _, out := Step(ins, Rune('q')); out != Pending {
		t.Fatalf("expected q to be typed in insert mode, got %v", out)
	}
}

func TestStep_InsertMode(t *testing.T) {
	t.Parallel()

	st := New("ac", false)
	st, _ = stepAll(t, st, Rune('a'), Rune('b'))
	if st.Text() != "abc" || st.Cursor != 2 {
		t.Fatalf("expected abc/2, got %q/%d", st.Text(), st.Cursor)
	}

	st, _ = stepAll(t, st, Backspace, Backspace, Backspace)
	if st.Text() != "c" || st.Cursor != 0 {
		t.Fatalf("expected c/0 (backspace floors at 0), got %q/%d", st.Text(), st.Cursor)
	}

	st, _ = stepAll(t, st, Rune('\t'), Rune('\x00'), Rune('\u007f'), Rune('é'))
	if st.Text() != "éc" {
		t.Fatalf("expected control characters dropped, got %q", st.Text())
	}

	// Escape leaves the cursor where it was, even at the end.
	st, _ = stepAll(t, st, Rune('z'), Escape)
	if st.Mode != Normal || st.Cursor != 2 {
		t.Fatalf("expected normal mode with cursor 2, got %v/%d", st.Mode, st.Cursor)
	}
}

func TestStep_DoesNotAliasInput(t *testing.T) {
	t.Parallel()

	orig := New("hello", false)
	orig.Mode = Insert
	next, _ := Step(orig, Rune('X'))
	if orig.Text() != "hello" {
		t.Fatalf("input state mutated: %q", orig.Text())
	}
	if next.Text() != "Xhello" {
		t.Fatalf("unexpected next text %q", next.Text())
	}
}

func TestNew_StripsControlCharacters(t *testing.T) {
	t.Parallel()

	st := New("a\tb\nc", true)
	if st.Text() != "abc" || st.Cursor != 3 {
		t.Fatalf("expected abc/3, got %q/%d", st.Text(), st.Cursor)
	}
}

func TestRun_HelloWorldScenario(t *testing.T) {
	t.Parallel()

	keys := []Key{Rune('0'), Rune('d'), Rune('i')}
	keys = append(keys, typeText("Hi ")...)
	keys = append(keys, Escape, Escape)

	res, err := Run("Hello world", Keys(keys...))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Committed() || res.Text != "Hi world" {
		t.Fatalf("expected committed %q, got %+v", "Hi world", res)
	}
}

func TestRun_CancelKeepsInitial(t *testing.T) {
	t.Parallel()

	res, err := Run("keep me", Keys(Rune('d'), Rune('q')))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Outcome != Cancelled || res.Text != "keep me" {
		t.Fatalf("expected cancelled with initial text, got %+v", res)
	}
}

func TestRun_InputEnded(t *testing.T) {
	t.Parallel()

	res, err := Run("abc", Keys(Rune('x')))
	if !errors.Is(err, ErrInputEnded) {
		t.Fatalf("expected ErrInputEnded, got %v", err)
	}
	if res.Text != "abc" {
		t.Fatalf("expected initial text on error, got %q", res.Text)
	}
}

func TestRun_ObserverAndCursorAtEnd(t *testing.T) {
	t.Parallel()

	var seen []State
	res, err := Run("ab", Keys(Rune('i'), Rune('c'), Enter),
		WithCursorAtEnd(),
		WithObserver(func(st State) { seen = append(seen, st) }),
	)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != "abc" {
		t.Fatalf("expected abc, got %q", res.Text)
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 observations (initial + 3 keys), got %d", len(seen))
	}
	if seen[0].Cursor != 2 {
		t.Fatalf("expected initial cursor at end, got %d", seen[0].Cursor)
	}
}

func TestStringKeys(t *testing.T) {
	t.Parallel()

	s, err := StringKeys("0diHi <ESC><cr><lt><space>")
	if err != nil {
		t.Fatalf("StringKeys: %v", err)
	}
	want := []Key{Rune('0'), Rune('d'), Rune('i'), Rune('H'), Rune('i'), Rune(' '), Escape, Enter, Rune('<'), Rune(' ')}
	if s.Len() != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), s.Len())
	}
	for i, w := range want {
		k, err := s.NextKey()
		if err != nil {
			t.Fatalf("NextKey %d: %v", i, err)
		}
		if k != w {
			t.Fatalf("key %d: expected %+v, got %+v", i, w, k)
		}
	}

	for _, bad := range []string{"abc<esc", "<nope>"} {
		if _, err := StringKeys(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRun_ScriptedScenario(t *testing.T) {
	t.Parallel()

	s, err := StringKeys("0diHi <esc><esc>")
	if err != nil {
		t.Fatalf("StringKeys: %v", err)
	}
	res, err := Run("Hello world", s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Text != "Hi world" {
		t.Fatalf("expected Hi world, got %q", res.Text)
	}
}
