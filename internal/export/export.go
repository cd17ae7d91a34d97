// Package export writes a project outline to documents on disk.
//
// Exports only read from the store. Each export lands in a fresh versioned
// directory: <root>/<project>/<yyyy-mm-dd>-v<N>/.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"

	"outline-cli/internal/model"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts the format names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("invalid export format: %q (expected text|markdown)", s)
	}
}

func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}

// Source is the read side of the outline store.
type Source interface {
	Tree(ctx context.Context, projectID int64) (model.Tree, error)
}

type Options struct {
	Format Format
	// Root is the export directory; the versioned directory is created under it.
	Root string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Result struct {
	Project   string `json:"project"`
	Format    Format `json:"format"`
	Directory string `json:"directory"`
	Path      string `json:"path"`
	Sentences int    `json:"sentences"`
}

// Write renders the project and writes it into a new versioned directory.
func Write(ctx context.Context, src Source, projectID int64, opt Options) (Result, error) {
	if strings.TrimSpace(opt.Root) == "" {
		return Result{}, errors.New("missing export directory")
	}
	if opt.Format == "" {
		opt.Format = FormatText
	}
	now := time.Now
	if opt.Now != nil {
		now = opt.Now
	}

	tree, err := src.Tree(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	body, err := Render(tree, opt.Format)
	if err != nil {
		return Result{}, err
	}

	dir, err := VersionedDir(opt.Root, tree.Project.Name, now())
	if err != nil {
		return Result{}, err
	}
	path := filepath.Join(dir, SafeName(tree.Project.Name)+opt.Format.Ext())
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return Result{}, err
	}
	return Result{
		Project:   tree.Project.Name,
		Format:    opt.Format,
		Directory: dir,
		Path:      path,
		Sentences: tree.SentenceCount(),
	}, nil
}

// Render formats a tree as a document.
func Render(tree model.Tree, f Format) (string, error) {
	switch f {
	case FormatText:
		return RenderText(tree), nil
	case FormatMarkdown:
		return RenderMarkdown(tree), nil
	default:
		return "", fmt.Errorf("invalid export format: %q", f)
	}
}

// RenderText lays the outline out as plain text: the title underlined with '=',
// headings underlined with '-', subheadings indented two spaces and sentences four.
// The blank subheading has no title line and empty sentences are skipped.
func RenderText(tree model.Tree) string {
	var b strings.Builder
	title := tree.Project.Name
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", runewidth.StringWidth(title)) + "\n\n")

	for _, hn := range tree.Headings {
		name := hn.Heading.Name
		b.WriteString(name + "\n")
		b.WriteString(strings.Repeat("-", runewidth.StringWidth(name)) + "\n\n")
		for _, sn := range hn.Subheadings {
			if !sn.Subheading.IsBlank() {
				b.WriteString("  " + sn.Subheading.Name + "\n\n")
			}
			for _, st := range sn.Sentences {
				if strings.TrimSpace(st.Content) == "" {
					continue
				}
				b.WriteString("    " + st.Content + "\n\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMarkdown lays the outline out as markdown, one paragraph per sentence.
func RenderMarkdown(tree model.Tree) string {
	var b strings.Builder
	b.WriteString("# " + markdownHeading(tree.Project.Name) + "\n\n")
	for _, hn := range tree.Headings {
		b.WriteString("## " + markdownHeading(hn.Heading.Name) + "\n\n")
		for _, sn := range hn.Subheadings {
			if !sn.Subheading.IsBlank() {
				b.WriteString("### " + markdownHeading(sn.Subheading.Name) + "\n\n")
			}
			for _, st := range sn.Sentences {
				if strings.TrimSpace(st.Content) == "" {
					continue
				}
				b.WriteString(markdownParagraph(st.Content) + "\n\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// markdownParagraph escapes anything at the start of a line that markdown would
// read as a block marker, so sentence text always renders as a paragraph.
func markdownParagraph(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = escapeLineStart(strings.TrimLeft(l, " \t"))
	}
	return strings.Join(lines, "\n")
}

func escapeLineStart(l string) string {
	if l == "" {
		return l
	}
	switch l[0] {
	case '#', '>', '-', '+', '*', '=', '_', '`', '~', '|':
		return `\` + l
	}
	digits := 0
	for digits < len(l) && l[digits] >= '0' && l[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(l) && (l[digits] == '.' || l[digits] == ')') {
		return l[:digits] + `\` + l[digits:]
	}
	return l
}

// markdownHeading keeps a trailing '#' from being eaten as a closing sequence.
func markdownHeading(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	if strings.HasSuffix(s, "#") {
		s = s[:len(s)-1] + `\#`
	}
	return s
}

// SafeName maps a project name to a file name: letters, digits, '-' and '_' are
// kept, spaces become '_' and anything else becomes '_'.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// VersionedDir creates and returns the first unused <root>/<project>/<date>-vN directory.
func VersionedDir(root, project string, now time.Time) (string, error) {
	projectDir := filepath.Join(root, SafeName(project))
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return "", err
	}
	day := now.Format("2006-01-02")
	for v := 1; ; v++ {
		dir := filepath.Join(projectDir, fmt.Sprintf("%s-v%d", day, v))
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}
}
