package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"outline-cli/internal/projection"
)

type cmdKind int

const (
	cmdNone cmdKind = iota
	cmdQuit
	cmdHelp
	cmdRefresh
	cmdHeading    // hX [name]
	cmdSubheading // hX1 [name]
	cmdAdd        // + text
	cmdInsert     // i N text
	cmdEdit       // e N
	cmdDelete     // d N
	cmdYank       // y N
	cmdMove       // m N KEY
	cmdCopy       // c N KEY
	cmdToggle     // @a | @a1
	cmdExpandAll  // @
	cmdDeleteHeading
	cmdDeleteSubheading
	cmdExport // export [md|text]

	// Project list.
	cmdNewProject    // n NAME
	cmdOpenProject   // N
	cmdRenameProject // r N NAME
	cmdDropProject   // x N
)

// command is one parsed command-line entry.
type command struct {
	kind cmdKind
	// heading is a 0-based heading index; sub a 1-based named-subheading number
	// (0 when the key names a heading).
	heading int
	sub     int
	key     string
	line    int
	text    string
}

var errUsage = errors.New("unknown command (? for help)")

// parseOutlineCommand parses the outline editor's command line.
func parseOutlineCommand(in string) (command, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return command{}, nil
	}
	head, rest := splitFirst(in)

	switch {
	case strings.HasPrefix(in, "+"):
		text := strings.TrimSpace(in[1:])
		if text == "" {
			return command{}, errors.New("sentence text required, e.g. + This is my sentence")
		}
		return command{kind: cmdAdd, text: text}, nil
	case head == "@":
		return command{kind: cmdExpandAll}, nil
	case strings.HasPrefix(head, "@"):
		c, err := parseKey(head[1:])
		if err != nil {
			return command{}, err
		}
		c.kind = cmdToggle
		return c, nil
	}

	switch strings.ToLower(head) {
	case "q":
		return command{kind: cmdQuit}, nil
	case "?", "help":
		return command{kind: cmdHelp}, nil
	case "p":
		return command{kind: cmdRefresh}, nil
	case "export":
		return command{kind: cmdExport, text: strings.ToLower(rest)}, nil
	case "i":
		n, text := splitFirst(rest)
		line, err := parseLineNo(n)
		if err != nil {
			return command{}, errors.New("usage: i <line> <text>, e.g. i 3 New sentence")
		}
		if text == "" {
			return command{}, errors.New("usage: i <line> <text>, e.g. i 3 New sentence")
		}
		return command{kind: cmdInsert, line: line, text: text}, nil
	case "e", "d", "y":
		line, err := parseLineNo(rest)
		if err != nil {
			return command{}, fmt.Errorf("usage: %s <line>", head)
		}
		kind := map[string]cmdKind{"e": cmdEdit, "d": cmdDelete, "y": cmdYank}[strings.ToLower(head)]
		return command{kind: kind, line: line}, nil
	case "m", "c":
		n, key := splitFirst(rest)
		line, err := parseLineNo(n)
		if err != nil || key == "" {
			return command{}, fmt.Errorf("usage: %s <line> <heading-or-subheading key>, e.g. %s 4 b1", head, head)
		}
		c, err := parseKey(key)
		if err != nil {
			return command{}, err
		}
		c.line = line
		c.kind = cmdMove
		if strings.ToLower(head) == "c" {
			c.kind = cmdCopy
		}
		return c, nil
	case "dh":
		i, ok := projection.ParseHeadingKey(rest)
		if !ok {
			return command{}, errors.New("usage: dh <heading key>, e.g. dh b")
		}
		return command{kind: cmdDeleteHeading, heading: i, key: strings.ToLower(rest)}, nil
	case "ds":
		i, n, ok := projection.ParseSubheadingKey(rest)
		if !ok {
			return command{}, errors.New("usage: ds <subheading key>, e.g. ds a2")
		}
		return command{kind: cmdDeleteSubheading, heading: i, sub: n, key: strings.ToLower(rest)}, nil
	}

	if len(head) > 1 && (head[0] == 'h' || head[0] == 'H') {
		c, err := parseKey(head[1:])
		if err != nil {
			return command{}, errors.New("use 'ha <name>' for a heading or 'ha1 <name>' for a subheading")
		}
		c.kind = cmdHeading
		if c.sub > 0 {
			c.kind = cmdSubheading
		}
		c.text = rest
		return c, nil
	}
	return command{}, errUsage
}

// parseProjectCommand parses the project list's command line.
func parseProjectCommand(in string) (command, error) {
	in = strings.TrimSpace(in)
	if in == "" {
		return command{}, nil
	}
	if n, err := strconv.Atoi(in); err == nil {
		return command{kind: cmdOpenProject, line: n}, nil
	}
	head, rest := splitFirst(in)
	switch strings.ToLower(head) {
	case "q":
		return command{kind: cmdQuit}, nil
	case "?", "help":
		return command{kind: cmdHelp}, nil
	case "p":
		return command{kind: cmdRefresh}, nil
	case "n":
		if rest == "" {
			return command{}, errors.New("usage: n <project name>")
		}
		return command{kind: cmdNewProject, text: rest}, nil
	case "r":
		n, name := splitFirst(rest)
		line, err := parseLineNo(n)
		if err != nil || name == "" {
			return command{}, errors.New("usage: r <number> <new name>")
		}
		return command{kind: cmdRenameProject, line: line, text: name}, nil
	case "x":
		line, err := parseLineNo(rest)
		if err != nil {
			return command{}, errors.New("usage: x <number>")
		}
		return command{kind: cmdDropProject, line: line}, nil
	}
	return command{}, errUsage
}

// parseKey reads a heading ("a") or subheading ("a1") key.
func parseKey(key string) (command, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if i, n, ok := projection.ParseSubheadingKey(key); ok {
		return command{heading: i, sub: n, key: key}, nil
	}
	if i, ok := projection.ParseHeadingKey(key); ok {
		return command{heading: i, key: key}, nil
	}
	return command{}, fmt.Errorf("invalid key %q", key)
}

func parseLineNo(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid line number %q", s)
	}
	return n, nil
}

func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
