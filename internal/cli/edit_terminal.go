package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"outline-cli/internal/lineedit"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const editPrompt = "edit> "

// editOnTerminal runs the line editor on the controlling terminal in raw mode,
// redrawing the line on stderr after every key.
func editOnTerminal(cmd *cobra.Command, initial string, opts ...lineedit.Option) (lineedit.Result, error) {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(in.Fd())) {
		return lineedit.Result{}, errors.New("edit needs a terminal; pass --keys to script the edit")
	}
	old, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return lineedit.Result{}, err
	}
	defer func() { _ = term.Restore(int(in.Fd()), old) }()

	out := cmd.ErrOrStderr()
	opts = append(opts, lineedit.WithObserver(func(st lineedit.State) { redrawLine(out, st) }))
	res, err := lineedit.Run(initial, &termKeys{r: in}, opts...)
	fmt.Fprint(out, "\r\n")
	if err != nil && !errors.Is(err, lineedit.ErrInputEnded) {
		return res, err
	}
	return res, nil
}

func redrawLine(w io.Writer, st lineedit.State) {
	mode := "N"
	if st.Mode == lineedit.Insert {
		mode = "I"
	}
	prefix := fmt.Sprintf("[%s] %s", mode, editPrompt)
	fmt.Fprint(w, "\r"+ansi.EraseEntireLine+prefix+st.Text()+"\r")
	if n := ansi.StringWidth(prefix) + ansi.StringWidth(string(st.Buffer[:st.Cursor])); n > 0 {
		fmt.Fprint(w, ansi.CursorForward(n))
	}
}

// termKeys decodes raw terminal bytes into editor keys. An escape sequence is
// assumed to arrive in a single read, which is how terminals deliver them; a
// lone ESC byte is the Escape key.
type termKeys struct {
	r       io.Reader
	pending []lineedit.Key
	buf     [64]byte
}

// interrupt is queued by decodeKeys when the user aborts the edit.
var interrupt = lineedit.Key{Type: -1}

func (t *termKeys) NextKey() (lineedit.Key, error) {
	for len(t.pending) == 0 {
		n, err := t.r.Read(t.buf[:])
		if n > 0 {
			t.pending = decodeKeys(t.buf[:n])
		}
		if err != nil && len(t.pending) == 0 {
			return lineedit.Key{}, err
		}
	}
	k := t.pending[0]
	t.pending = t.pending[1:]
	if k == interrupt {
		t.pending = nil
		return lineedit.Key{}, io.EOF
	}
	return k, nil
}

func decodeKeys(b []byte) []lineedit.Key {
	var out []lineedit.Key
	for len(b) > 0 {
		switch c := b[0]; {
		case c == 0x1b:
			if len(b) >= 3 && (b[1] == '[' || b[1] == 'O') {
				switch b[2] {
				case 'C':
					out = append(out, lineedit.Right)
				case 'D':
					out = append(out, lineedit.Left)
				}
				b = b[3:]
				continue
			}
			out = append(out, lineedit.Escape)
			b = b[1:]
		case c == '\r' || c == '\n':
			out = append(out, lineedit.Enter)
			b = b[1:]
		case c == 0x7f || c == 0x08:
			out = append(out, lineedit.Backspace)
			b = b[1:]
		case c == 0x03 || c == 0x04:
			// Ctrl-C / Ctrl-D end input; Run reports that as a cancel.
			return append(out, interrupt)
		case c < 0x20:
			b = b[1:]
		default:
			r, size := utf8.DecodeRune(b)
			out = append(out, lineedit.Rune(r))
			b = b[size:]
		}
	}
	return out
}
