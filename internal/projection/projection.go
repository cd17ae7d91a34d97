// Package projection flattens a project's outline into numbered display lines.
//
// A projection is a pure read of the store's current ordering; nothing is cached
// between calls, so line numbers always match what the store would address.
package projection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"outline-cli/internal/model"
)

// Source is the read side of the outline store.
type Source interface {
	Tree(ctx context.Context, projectID int64) (model.Tree, error)
}

// Collapse is caller-owned view state keyed by entity id. It is never persisted.
type Collapse struct {
	Headings    map[int64]bool
	Subheadings map[int64]bool
}

func NewCollapse() Collapse {
	return Collapse{Headings: map[int64]bool{}, Subheadings: map[int64]bool{}}
}

// ToggleHeading flips a heading and reports whether it is now collapsed.
func (c *Collapse) ToggleHeading(id int64) bool {
	if c.Headings == nil {
		c.Headings = map[int64]bool{}
	}
	if c.Headings[id] {
		delete(c.Headings, id)
		return false
	}
	c.Headings[id] = true
	return true
}

// ToggleSubheading flips a subheading and reports whether it is now collapsed.
func (c *Collapse) ToggleSubheading(id int64) bool {
	if c.Subheadings == nil {
		c.Subheadings = map[int64]bool{}
	}
	if c.Subheadings[id] {
		delete(c.Subheadings, id)
		return false
	}
	c.Subheadings[id] = true
	return true
}

// ExpandAll clears every toggle.
func (c *Collapse) ExpandAll() {
	c.Headings = map[int64]bool{}
	c.Subheadings = map[int64]bool{}
}

// Build loads the project's tree and flattens it.
func Build(ctx context.Context, src Source, projectID int64, c Collapse) ([]model.DisplayLine, error) {
	tree, err := src.Tree(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return FromTree(tree, c), nil
}

// FromTree flattens tree in display order.
//
// Sentences are numbered across the whole project, hidden ones included, so a line
// number keeps addressing the same sentence whatever is collapsed. The blank
// subheading gets no line of its own: its sentences read as belonging to the heading.
func FromTree(tree model.Tree, c Collapse) []model.DisplayLine {
	out := []model.DisplayLine{}
	n := 0
	for hi, hn := range tree.Headings {
		hkey := HeadingKey(hi)
		hidden := c.Headings[hn.Heading.ID]
		out = append(out, model.DisplayLine{
			Kind:      model.LineKindHeading,
			ID:        hn.Heading.ID,
			ParentID:  hn.Heading.ProjectID,
			Key:       hkey,
			Position:  hn.Heading.SortOrder,
			Depth:     0,
			Text:      hn.Heading.Name,
			Collapsed: hidden,
		})

		named := 0
		for _, sn := range hn.Subheadings {
			subHidden := hidden
			if !sn.Subheading.IsBlank() {
				named++
				folded := c.Subheadings[sn.Subheading.ID]
				if !hidden {
					out = append(out, model.DisplayLine{
						Kind:      model.LineKindSubheading,
						ID:        sn.Subheading.ID,
						ParentID:  hn.Heading.ID,
						Key:       SubheadingKey(hkey, named),
						Position:  sn.Subheading.SortOrder,
						Depth:     1,
						Text:      sn.Subheading.Name,
						Collapsed: folded,
					})
				}
				subHidden = hidden || folded
			}
			for _, st := range sn.Sentences {
				n++
				if subHidden {
					continue
				}
				out = append(out, model.DisplayLine{
					Kind:     model.LineKindSentence,
					ID:       st.ID,
					ParentID: sn.Subheading.ID,
					Line:     n,
					Position: st.SortOrder,
					Depth:    2,
					Text:     st.Content,
				})
			}
		}
	}
	return out
}

// HeadingKey returns the short key for the i-th heading (0-based): a..z, then #26, #27...
func HeadingKey(i int) string {
	if i >= 0 && i < 26 {
		return string(rune('a' + i))
	}
	return "#" + strconv.Itoa(i)
}

// ParseHeadingKey is the inverse of HeadingKey. Letters are case-insensitive.
func ParseHeadingKey(key string) (int, bool) {
	key = strings.TrimSpace(key)
	if len(key) == 1 {
		c := key[0] | 0x20
		if c >= 'a' && c <= 'z' {
			return int(c - 'a'), true
		}
		return 0, false
	}
	if strings.HasPrefix(key, "#") {
		n, err := strconv.Atoi(key[1:])
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// SubheadingKey returns the key of the n-th (1-based) named subheading under a heading.
// Numeric heading keys take a dot so "#26.1" never reads as heading 261.
func SubheadingKey(headingKey string, n int) string {
	if strings.HasPrefix(headingKey, "#") {
		return fmt.Sprintf("%s.%d", headingKey, n)
	}
	return headingKey + strconv.Itoa(n)
}

// ParseSubheadingKey splits a subheading key into the heading index (0-based) and the
// subheading number (1-based).
func ParseSubheadingKey(key string) (heading int, sub int, ok bool) {
	key = strings.TrimSpace(key)
	var hpart, spart string
	if strings.HasPrefix(key, "#") {
		i := strings.IndexByte(key, '.')
		if i < 0 {
			return 0, 0, false
		}
		hpart, spart = key[:i], key[i+1:]
	} else {
		if len(key) < 2 {
			return 0, 0, false
		}
		hpart, spart = key[:1], key[1:]
	}
	h, ok := ParseHeadingKey(hpart)
	if !ok {
		return 0, 0, false
	}
	n, err := strconv.Atoi(spart)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return h, n, true
}

// Find returns the heading or subheading line with the given key.
func Find(lines []model.DisplayLine, key string) (model.DisplayLine, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range lines {
		if l.Key != "" && l.Key == key {
			return l, true
		}
	}
	return model.DisplayLine{}, false
}

// ResolveLine returns the sentence line numbered n, if it is visible.
func ResolveLine(lines []model.DisplayLine, n int) (model.DisplayLine, bool) {
	for _, l := range lines {
		if l.Kind == model.LineKindSentence && l.Line == n {
			return l, true
		}
	}
	return model.DisplayLine{}, false
}

// Render formats lines as plain text.
func Render(lines []model.DisplayLine) string {
	var b strings.Builder
	for i, l := range lines {
		switch l.Kind {
		case model.LineKindHeading:
			if i > 0 {
				b.WriteString("\n")
			}
			marker := "[-]"
			if l.Collapsed {
				marker = "[+]"
			}
			fmt.Fprintf(&b, "%s [%s] %s\n", marker, l.Key, l.Text)
		case model.LineKindSubheading:
			marker := ""
			if l.Collapsed {
				marker = " [+]"
			}
			fmt.Fprintf(&b, "  [%s] %s%s\n", l.Key, l.Text, marker)
		case model.LineKindSentence:
			fmt.Fprintf(&b, "    [%d] %s\n", l.Line, l.Text)
		}
	}
	return b.String()
}
