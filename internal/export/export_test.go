package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"outline-cli/internal/model"
)

type treeSource struct{ tree model.Tree }

func (s treeSource) Tree(ctx context.Context, projectID int64) (model.Tree, error) {
	return s.tree, nil
}

func sampleTree() model.Tree {
	return model.Tree{
		Project: model.Project{ID: 1, Name: "My Thesis"},
		Headings: []model.HeadingNode{
			{
				Heading: model.Heading{ID: 1, Name: "Intro"},
				Subheadings: []model.SubheadingNode{
					{
						Subheading: model.Subheading{ID: 1, Name: ""},
						Sentences:  []model.Sentence{{ID: 1, Content: "Opening line."}},
					},
					{
						Subheading: model.Subheading{ID: 2, Name: "Background"},
						Sentences: []model.Sentence{
							{ID: 2, Content: "Hello world."},
							{ID: 3, Content: "   "},
						},
					},
				},
			},
			{Heading: model.Heading{ID: 2, Name: "Méthodes"}},
		},
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	got := RenderText(sampleTree())
	want := strings.Join([]string{
		"My Thesis",
		"=========",
		"",
		"Intro",
		"-----",
		"",
		"    Opening line.",
		"",
		"  Background",
		"",
		"    Hello world.",
		"",
		"",
		"Méthodes",
		"--------",
		"",
		"",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected text export:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	got := RenderMarkdown(sampleTree())
	for _, want := range []string{"# My Thesis\n", "## Intro\n", "### Background\n", "Hello world.\n", "## Méthodes\n"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected markdown to contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "### \n") {
		t.Fatalf("blank subheading should have no title:\n%s", got)
	}
	if !strings.HasSuffix(got, "## Méthodes\n") {
		t.Fatalf("expected single trailing newline:\n%q", got)
	}
}

func TestRenderMarkdown_EscapesBlockMarkers(t *testing.T) {
	t.Parallel()

	tree := model.Tree{
		Project: model.Project{ID: 1, Name: "Notes on C#"},
		Headings: []model.HeadingNode{{
			Heading: model.Heading{ID: 1, Name: "Intro"},
			Subheadings: []model.SubheadingNode{{
				Subheading: model.Subheading{ID: 1, Name: ""},
				Sentences: []model.Sentence{
					{ID: 1, Content: "# not a heading"},
					{ID: 2, Content: "- not an item"},
					{ID: 3, Content: "12. not numbered"},
					{ID: 4, Content: "  > not a quote"},
					{ID: 5, Content: "Plain 1. text - stays #as is"},
				},
			}},
		}},
	}
	got := RenderMarkdown(tree)
	for _, want := range []string{
		"# Notes on C\\#\n",
		"\n\\# not a heading\n",
		"\n\\- not an item\n",
		"\n12\\. not numbered\n",
		"\n\\> not a quote\n",
		"\nPlain 1. text - stays #as is\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected markdown to contain %q:\n%s", want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	cases := map[string]Format{"": FormatText, "txt": FormatText, "TEXT": FormatText, "md": FormatMarkdown, "markdown": FormatMarkdown}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q): expected %q, got %q err=%v", in, want, got, err)
		}
	}
	if _, err := ParseFormat("docx"); err == nil {
		t.Fatalf("expected docx to be rejected")
	}
}

func TestSafeName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"My Thesis":     "My_Thesis",
		" a/b:c ":       "a_b_c",
		"draft-2_final": "draft-2_final",
		"":              "untitled",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Fatalf("SafeName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestWrite_VersionsDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	day := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	opt := Options{Format: FormatMarkdown, Root: root, Now: func() time.Time { return day }}
	src := treeSource{tree: sampleTree()}

	first, err := Write(context.Background(), src, 1, opt)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	second, err := Write(context.Background(), src, 1, opt)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if want := filepath.Join(root, "My_Thesis", "2024-03-09-v1", "My_Thesis.md"); first.Path != want {
		t.Fatalf("expected %s, got %s", want, first.Path)
	}
	if want := filepath.Join(root, "My_Thesis", "2024-03-09-v2"); second.Directory != want {
		t.Fatalf("expected %s, got %s", want, second.Directory)
	}
	if first.Sentences != 3 {
		t.Fatalf("expected 3 sentences counted, got %d", first.Sentences)
	}
	b, err := os.ReadFile(second.Path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(b), "# My Thesis") {
		t.Fatalf("unexpected file content: %q", string(b))
	}
}

func TestWrite_RequiresRoot(t *testing.T) {
	t.Parallel()

	if _, err := Write(context.Background(), treeSource{}, 1, Options{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPreview_FallsBackOnEmpty(t *testing.T) {
	t.Parallel()

	if got := Preview("   ", 80); got != "" {
		t.Fatalf("expected empty preview, got %q", got)
	}
	if got := Preview("# Title", 80); !strings.Contains(got, "Title") {
		t.Fatalf("expected rendered title, got %q", got)
	}
}
