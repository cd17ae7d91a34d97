package tui

import (
	"strconv"
	"strings"

	"outline-cli/internal/lineedit"
	"outline-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// lineEdit is an in-progress modal edit of one sentence.
type lineEdit struct {
	sentence model.Sentence
	line     int
	state    lineedit.State
}

// editKey maps a bubbletea key to a line editor key. Keys the editor has no use for
// report false.
func editKey(msg tea.KeyMsg) ([]lineedit.Key, bool) {
	switch msg.Type {
	case tea.KeyEsc:
		return []lineedit.Key{lineedit.Escape}, true
	case tea.KeyEnter:
		return []lineedit.Key{lineedit.Enter}, true
	case tea.KeyBackspace, tea.KeyCtrlH:
		return []lineedit.Key{lineedit.Backspace}, true
	case tea.KeyLeft:
		return []lineedit.Key{lineedit.Left}, true
	case tea.KeyRight:
		return []lineedit.Key{lineedit.Right}, true
	case tea.KeySpace:
		return []lineedit.Key{lineedit.Rune(' ')}, true
	case tea.KeyRunes:
		// Pasted text arrives as one message with several runes.
		keys := make([]lineedit.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, lineedit.Rune(r))
		}
		return keys, len(keys) > 0
	}
	return nil, false
}

// feed applies keys in order, stopping at the first terminal outcome.
func (e *lineEdit) feed(keys []lineedit.Key) lineedit.Outcome {
	for _, k := range keys {
		var out lineedit.Outcome
		e.state, out = lineedit.Step(e.state, k)
		if out != lineedit.Pending {
			return out
		}
	}
	return lineedit.Pending
}

func (e *lineEdit) view() string {
	buf := e.state.Buffer
	cur := e.state.Cursor
	insert := e.state.Mode == lineedit.Insert

	var b strings.Builder
	label := "NORMAL"
	if insert {
		label = "INSERT"
	}
	b.WriteString(styleMuted().Render(label+"  "))
	b.WriteString(styleLineNo().Render("[" + strconv.Itoa(e.line) + "] "))
	b.WriteString(string(buf[:cur]))
	under := " "
	if cur < len(buf) {
		under = string(buf[cur])
	}
	b.WriteString(styleCursor(insert).Render(under))
	if cur < len(buf) {
		b.WriteString(string(buf[cur+1:]))
	}
	return b.String()
}
