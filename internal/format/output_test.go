package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

type outlineText string

func (o outlineText) Text() string { return string(o) }

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": sample{ID: 1, Name: "Intro"}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "{\"data\":{\"id\":1,\"name\":\"Intro\",\"sortOrder\":0}}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWrite_EDN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{
		"data":   []sample{{ID: 9007199254740993, Name: "a \"q\"", SortOrder: 2}},
		"_hints": []string{"outline"},
		"ratio":  0.5,
		"ok":     true,
		"none":   nil,
	}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:_hints ["outline"] :data [{:id 9007199254740993 :name "a \"q\"" :sort-order 2}] :none nil :ok true :ratio 0.5}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected edn:\n%s\nwant:\n%s", got, want)
	}
}

func TestWrite_EDNPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"a": []int{1}, "b": map[string]any{}}, "edn", true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "{\n  :a [\n    1\n  ]\n  :b {}\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected pretty edn:\n%q\nwant:\n%q", got, want)
	}
}

func TestWrite_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	v := map[string]any{
		"data":   []sample{{ID: 1, Name: "Intro"}, {ID: 2, Name: "Methods", SortOrder: 1}},
		"_hints": []string{"x"},
	}
	if err := Write(&buf, v, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "id: 1\nname: Intro\nsortOrder: 0\n\nid: 2\nname: Methods\nsortOrder: 1\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected text:\n%q\nwant:\n%q", got, want)
	}

	buf.Reset()
	if err := Write(&buf, map[string]any{"data": outlineText("[-] [a] Intro")}, "text", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "[-] [a] Intro\n" {
		t.Fatalf("expected Texter output, got %q", got)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, 1, "yaml", false)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if Valid("yaml") || !Valid("EDN") {
		t.Fatalf("unexpected Valid results")
	}
}
