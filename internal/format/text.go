package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteText writes a human-readable rendering. A Texter (or a {"data": Texter}
// envelope) is printed as-is; anything else is laid out as indented key: value
// lines. Keys starting with '_' (hints) are omitted.
func WriteText(w io.Writer, v any) error {
	if t, ok := textOf(v); ok {
		s := t.Text()
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		_, err := io.WriteString(w, s)
		return err
	}

	x, err := toGeneric(v)
	if err != nil {
		return err
	}
	if m, ok := x.(map[string]any); ok {
		if d, ok := m["data"]; ok {
			x = d
		}
	}
	var buf bytes.Buffer
	writeTextAny(&buf, x, 0)
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func textOf(v any) (Texter, bool) {
	if t, ok := v.(Texter); ok {
		return t, true
	}
	if m, ok := v.(map[string]any); ok {
		if t, ok := m["data"].(Texter); ok {
			return t, true
		}
	}
	return nil, false
}

func writeTextAny(buf *bytes.Buffer, v any, level int) {
	pad := strings.Repeat("  ", level)
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			if strings.HasPrefix(k, "_") {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch t[k].(type) {
			case map[string]any, []any:
				fmt.Fprintf(buf, "%s%s:\n", pad, k)
				writeTextAny(buf, t[k], level+1)
			default:
				fmt.Fprintf(buf, "%s%s: %s\n", pad, k, scalarText(t[k]))
			}
		}
	case []any:
		if len(t) == 0 {
			fmt.Fprintf(buf, "%s(none)\n", pad)
			return
		}
		for i, it := range t {
			if _, ok := it.(map[string]any); ok {
				if i > 0 {
					buf.WriteByte('\n')
				}
				writeTextAny(buf, it, level)
				continue
			}
			fmt.Fprintf(buf, "%s- %s\n", pad, scalarText(it))
		}
	default:
		fmt.Fprintf(buf, "%s%s\n", pad, scalarText(t))
	}
}

func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}
