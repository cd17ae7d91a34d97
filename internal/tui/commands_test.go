package tui

import (
	"reflect"
	"testing"

	"outline-cli/internal/lineedit"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseOutlineCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want command
	}{
		{"", command{}},
		{"q", command{kind: cmdQuit}},
		{"?", command{kind: cmdHelp}},
		{"p", command{kind: cmdRefresh}},
		{"ha Intro", command{kind: cmdHeading, heading: 0, key: "a", text: "Intro"}},
		{"hB", command{kind: cmdHeading, heading: 1, key: "b"}},
		{"ha2 Background info", command{kind: cmdSubheading, heading: 0, sub: 2, key: "a2", text: "Background info"}},
		{"h#26 Late", command{kind: cmdHeading, heading: 26, key: "#26", text: "Late"}},
		{"h#26.1", command{kind: cmdSubheading, heading: 26, sub: 1, key: "#26.1"}},
		{"+ This is my sentence", command{kind: cmdAdd, text: "This is my sentence"}},
		{"+tight", command{kind: cmdAdd, text: "tight"}},
		{"i 3 Goes before three", command{kind: cmdInsert, line: 3, text: "Goes before three"}},
		{"e 5", command{kind: cmdEdit, line: 5}},
		{"d 7", command{kind: cmdDelete, line: 7}},
		{"y 2", command{kind: cmdYank, line: 2}},
		{"m 4 b1", command{kind: cmdMove, line: 4, heading: 1, sub: 1, key: "b1"}},
		{"c 4 a", command{kind: cmdCopy, line: 4, heading: 0, key: "a"}},
		{"@c", command{kind: cmdToggle, heading: 2, key: "c"}},
		{"@a1", command{kind: cmdToggle, heading: 0, sub: 1, key: "a1"}},
		{"@", command{kind: cmdExpandAll}},
		{"dh b", command{kind: cmdDeleteHeading, heading: 1, key: "b"}},
		{"ds a2", command{kind: cmdDeleteSubheading, heading: 0, sub: 2, key: "a2"}},
		{"export md", command{kind: cmdExport, text: "md"}},
	}
	for _, tt := range tests {
		got, err := parseOutlineCommand(tt.in)
		if err != nil {
			t.Fatalf("parseOutlineCommand(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseOutlineCommand(%q)=%+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseOutlineCommand_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"+", "+   ", "i 3", "i x text", "e", "e zero", "d 0", "m 1", "@1", "h", "h1", "dh 1", "ds a", "zz"} {
		if _, err := parseOutlineCommand(in); err == nil {
			t.Fatalf("parseOutlineCommand(%q): expected error", in)
		}
	}
}

func TestParseProjectCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want command
	}{
		{"3", command{kind: cmdOpenProject, line: 3}},
		{"n My Novel", command{kind: cmdNewProject, text: "My Novel"}},
		{"r 2 Renamed one", command{kind: cmdRenameProject, line: 2, text: "Renamed one"}},
		{"x 1", command{kind: cmdDropProject, line: 1}},
		{"q", command{kind: cmdQuit}},
	}
	for _, tt := range tests {
		got, err := parseProjectCommand(tt.in)
		if err != nil {
			t.Fatalf("parseProjectCommand(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseProjectCommand(%q)=%+v, want %+v", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"n", "r 2", "x", "open"} {
		if _, err := parseProjectCommand(in); err == nil {
			t.Fatalf("parseProjectCommand(%q): expected error", in)
		}
	}
}

func TestEditKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  tea.KeyMsg
		want []lineedit.Key
		ok   bool
	}{
		{tea.KeyMsg{Type: tea.KeyEsc}, []lineedit.Key{lineedit.Escape}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, []lineedit.Key{lineedit.Enter}, true},
		{tea.KeyMsg{Type: tea.KeyBackspace}, []lineedit.Key{lineedit.Backspace}, true},
		{tea.KeyMsg{Type: tea.KeyLeft}, []lineedit.Key{lineedit.Left}, true},
		{tea.KeyMsg{Type: tea.KeyRight}, []lineedit.Key{lineedit.Right}, true},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []lineedit.Key{lineedit.Rune(' ')}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []lineedit.Key{lineedit.Rune('a'), lineedit.Rune('b')}, true},
		{tea.KeyMsg{Type: tea.KeyTab}, nil, false},
	}
	for _, tt := range tests {
		got, ok := editKey(tt.msg)
		if ok != tt.ok || !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("editKey(%v)=%v,%v want %v,%v", tt.msg, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLineEdit_FeedStopsAtCommit(t *testing.T) {
	t.Parallel()

	e := &lineEdit{state: lineedit.New("abc", false)}
	out := e.feed([]lineedit.Key{lineedit.Rune('x'), lineedit.Enter, lineedit.Rune('x')})
	if out != lineedit.Committed {
		t.Fatalf("expected commit, got %v", out)
	}
	if got := e.state.Text(); got != "bc" {
		t.Fatalf("keys after commit must be ignored, got %q", got)
	}
}
