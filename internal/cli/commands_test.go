package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"outline-cli/internal/lineedit"
)

func runCLI(t *testing.T, dir string, args ...string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append([]string{"--config-dir", dir}, args...))

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

func mustRun(t *testing.T, dir string, args ...string) []byte {
	t.Helper()
	out, errOut, err := runCLI(t, dir, args...)
	if err != nil {
		t.Fatalf("%s: %v\nstderr:\n%s", strings.Join(args, " "), err, string(errOut))
	}
	return out
}

func envelopeData(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, string(out))
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %#v", env["data"])
	}
	return data
}

// newProject creates a project in a fresh config dir and makes it active.
func newProject(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "projects", "create", name, "--use")
	return dir
}

func TestProjects_CreateUseCurrent(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	data := envelopeData(t, mustRun(t, dir, "projects", "current"))
	if got := data["name"]; got != "Thesis" {
		t.Fatalf("expected current project Thesis, got %v", got)
	}

	mustRun(t, dir, "projects", "create", "Novel")
	mustRun(t, dir, "projects", "use", "Novel")
	data = envelopeData(t, mustRun(t, dir, "projects", "current"))
	if got := data["name"]; got != "Novel" {
		t.Fatalf("expected current project Novel, got %v", got)
	}

	mustRun(t, dir, "projects", "use", "--clear")
	_, _, err := runCLI(t, dir, "projects", "current")
	if got := ExitCode(err); got != ExitNoProject {
		t.Fatalf("expected exit %d without active project, got %d (%v)", ExitNoProject, got, err)
	}
}

func TestProjects_DeleteActiveClearsSession(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Scratch")

	data := envelopeData(t, mustRun(t, dir, "projects", "delete", "Scratch"))
	if data["sessionCleared"] != true {
		t.Fatalf("expected session to be cleared, got %#v", data)
	}
	_, _, err := runCLI(t, dir, "headings", "list")
	if got := ExitCode(err); got != ExitNoProject {
		t.Fatalf("expected exit %d, got %d (%v)", ExitNoProject, got, err)
	}
}

func TestOutline_TextRendering(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "headings", "set", "Methods")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "First.")
	mustRun(t, dir, "subheadings", "set", "--heading", "a", "Background")
	mustRun(t, dir, "sentences", "add", "--subheading", "a1", "Second.")

	out := mustRun(t, dir, "outline", "--format", "text")
	want := "[-] [a] Intro\n" +
		"    [1] First.\n" +
		"  [a1] Background\n" +
		"    [2] Second.\n" +
		"\n" +
		"[-] [b] Methods\n"
	if string(out) != want {
		t.Fatalf("outline mismatch\n got:\n%s\nwant:\n%s", out, want)
	}

	out = mustRun(t, dir, "outline", "--format", "text", "--collapse", "a")
	want = "[+] [a] Intro\n\n[-] [b] Methods\n"
	if string(out) != want {
		t.Fatalf("collapsed outline mismatch\n got:\n%q\nwant:\n%q", out, want)
	}
}

func TestOutline_UnknownCollapseKey(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	_, stderr, err := runCLI(t, dir, "outline", "--collapse", "z")
	if err == nil {
		t.Fatalf("expected error for unknown heading key")
	}
	if !strings.Contains(string(stderr), "invalid heading reference") {
		t.Fatalf("expected reference error on stderr, got %q", stderr)
	}
	if strings.HasPrefix(string(stderr), "{") || strings.Count(string(stderr), "\n") != 1 {
		t.Fatalf("expected one plain message line on stderr, got %q", stderr)
	}
}

func TestSentences_InsertByLine(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "one")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "three")
	data := envelopeData(t, mustRun(t, dir, "sentences", "insert", "2", "two"))
	if data["line"] != float64(2) {
		t.Fatalf("expected inserted sentence at line 2, got %v", data["line"])
	}

	var env struct {
		Data []struct {
			Content string `json:"content"`
			Line    int    `json:"line"`
		} `json:"data"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "sentences", "list"), &env); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	var got []string
	for i, s := range env.Data {
		if s.Line != i+1 {
			t.Fatalf("expected line %d, got %d", i+1, s.Line)
		}
		got = append(got, s.Content)
	}
	if want := []string{"one", "two", "three"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	_, _, err := runCLI(t, dir, "sentences", "insert", "9", "nowhere")
	if got := ExitCode(err); got != ExitNotFound {
		t.Fatalf("expected exit %d for missing line, got %d", ExitNotFound, got)
	}
}

func TestSentences_EditScripted(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "Hello world")

	data := envelopeData(t, mustRun(t, dir, "sentences", "edit", "1", "--keys", "0diHi <esc><esc>"))
	if got := data["content"]; got != "Hi world" {
		t.Fatalf("expected %q, got %v", "Hi world", got)
	}

	_, _, err := runCLI(t, dir, "sentences", "edit", "1", "--keys", "xxq")
	if got := ExitCode(err); got != ExitEditCanceled {
		t.Fatalf("expected exit %d on cancel, got %d (%v)", ExitEditCanceled, got, err)
	}
	data = envelopeData(t, mustRun(t, dir, "sentences", "show", "1"))
	if got := data["content"]; got != "Hi world" {
		t.Fatalf("cancelled edit must not change the sentence, got %v", got)
	}
}

func TestSentences_MoveAndCopy(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "headings", "set", "Body")
	mustRun(t, dir, "subheadings", "set", "--heading", "b", "Detail")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "keep me")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "move me")

	data := envelopeData(t, mustRun(t, dir, "sentences", "copy", "1", "--to", "b1"))
	if data["content"] != "keep me" || data["subheading"] != "Detail" {
		t.Fatalf("unexpected copy result %#v", data)
	}
	data = envelopeData(t, mustRun(t, dir, "sentences", "move", "2", "--to-heading", "b"))
	if data["heading"] != "Body" || data["subheading"] != "" {
		t.Fatalf("unexpected move result %#v", data)
	}

	out := mustRun(t, dir, "outline", "--format", "text")
	want := "[-] [a] Intro\n" +
		"    [1] keep me\n" +
		"\n" +
		"[-] [b] Body\n" +
		"    [2] move me\n" +
		"  [b1] Detail\n" +
		"    [3] keep me\n"
	if string(out) != want {
		t.Fatalf("outline mismatch\n got:\n%s\nwant:\n%s", out, want)
	}
}

func TestSentences_IDScopedToProject(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "A")

	mustRun(t, dir, "headings", "set", "Intro")
	data := envelopeData(t, mustRun(t, dir, "sentences", "add", "--heading", "a", "secret in A"))
	id := strconv.FormatFloat(data["sentenceId"].(float64), 'f', -1, 64)

	mustRun(t, dir, "projects", "create", "B", "--use")
	mustRun(t, dir, "headings", "set", "Other")

	tests := [][]string{
		{"sentences", "show", "--id", id},
		{"sentences", "update", "--id", id, "overwritten from B"},
		{"sentences", "edit", "--id", id, "--keys", "A!<cr>"},
		{"sentences", "move", "--id", id, "--to-heading", "a"},
		{"sentences", "copy", "--id", id, "--to-heading", "a"},
		{"sentences", "reorder", "--id", id, "--to", "0"},
		{"sentences", "delete", "--id", id},
	}
	for _, args := range tests {
		_, _, err := runCLI(t, dir, args...)
		if got := ExitCode(err); got != ExitNotFound {
			t.Fatalf("%s: expected exit %d, got %d (%v)", strings.Join(args, " "), ExitNotFound, got, err)
		}
	}

	data = envelopeData(t, mustRun(t, dir, "sentences", "show", "--project", "A", "--id", id))
	if got := data["content"]; got != "secret in A" {
		t.Fatalf("sentence in A must be untouched, got %v", got)
	}
	if out := string(mustRun(t, dir, "outline", "--format", "text")); out != "[-] [a] Other\n" {
		t.Fatalf("nothing may land in B, got:\n%s", out)
	}
}

func TestHeadings_ErrorsMapToExitCodes(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "headings", "set", "Methods")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"duplicate rename", []string{"headings", "rename", "b", "Intro"}, ExitDuplicate},
		{"missing key", []string{"headings", "delete", "q"}, ExitNotFound},
		{"missing line", []string{"sentences", "show", "7"}, ExitNotFound},
		{"bad reference", []string{"sentences", "show", "seven"}, ExitFailure},
	}
	for _, tt := range tests {
		_, stderr, err := runCLI(t, dir, tt.args...)
		if got := ExitCode(err); got != tt.want {
			t.Fatalf("%s: expected exit %d, got %d (%v)", tt.name, tt.want, got, err)
		}
		if len(stderr) == 0 {
			t.Fatalf("%s: expected message on stderr", tt.name)
		}
	}
}

func TestHeadings_ReorderAndList(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	for _, n := range []string{"A", "B", "C"} {
		mustRun(t, dir, "headings", "set", n)
	}
	mustRun(t, dir, "headings", "reorder", "c", "--to", "0")

	var env struct {
		Data []struct {
			Key       string `json:"key"`
			Name      string `json:"name"`
			SortOrder int    `json:"sortOrder"`
		} `json:"data"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "headings", "list"), &env); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	var names []string
	for i, h := range env.Data {
		if h.SortOrder != i {
			t.Fatalf("expected dense order, %s has %d at index %d", h.Name, h.SortOrder, i)
		}
		names = append(names, h.Key+":"+h.Name)
	}
	if want := []string{"a:C", "b:A", "c:B"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("got %v, want %v", names, want)
	}
}

func TestExport_WritesVersionedFiles(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "My Thesis")
	mustRun(t, dir, "headings", "set", "Intro")
	mustRun(t, dir, "sentences", "add", "--heading", "a", "First.")

	exportDir := t.TempDir()
	first := envelopeData(t, mustRun(t, dir, "export", "--to", exportDir))
	second := envelopeData(t, mustRun(t, dir, "export", "--to", exportDir, "--as", "md"))

	p1, _ := first["path"].(string)
	p2, _ := second["path"].(string)
	if filepath.Base(p1) != "My_Thesis.txt" || filepath.Base(p2) != "My_Thesis.md" {
		t.Fatalf("unexpected export files %q %q", p1, p2)
	}
	if !strings.HasSuffix(filepath.Dir(p1), "-v1") || !strings.HasSuffix(filepath.Dir(p2), "-v2") {
		t.Fatalf("expected v1 then v2 directories, got %q %q", filepath.Dir(p1), filepath.Dir(p2))
	}
	b, err := os.ReadFile(p1)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(b), "First.") {
		t.Fatalf("expected sentence in export, got:\n%s", b)
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	mustRun(t, dir, "config", "set", "log_level", "DEBUG")
	data := envelopeData(t, mustRun(t, dir, "config", "show"))
	if data["log_level"] != "debug" {
		t.Fatalf("expected log_level debug, got %v", data["log_level"])
	}
	if data["database_home"] != filepath.Join(dir, "data") {
		t.Fatalf("unexpected database_home %v", data["database_home"])
	}

	if _, _, err := runCLI(t, dir, "config", "set", "colour", "blue"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}

func TestDoctor_CleanDatabase(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")
	mustRun(t, dir, "headings", "set", "Intro")

	var env struct {
		Meta struct {
			OK bool `json:"ok"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "doctor"), &env); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if !env.Meta.OK {
		t.Fatalf("expected fresh database to be dense")
	}
}

func TestDocs_TopicsAndRaw(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	data := envelopeData(t, mustRun(t, dir, "docs"))
	topics, ok := data["topics"].([]any)
	if !ok || len(topics) == 0 {
		t.Fatalf("expected topics, got %#v", data)
	}

	out := mustRun(t, dir, "docs", "editor", "--raw")
	if !strings.HasPrefix(string(out), "# Line editor") {
		t.Fatalf("expected raw markdown, got:\n%s", string(out))
	}

	_, _, err := runCLI(t, dir, "docs", "nope")
	if got := ExitCode(err); got != ExitFailure {
		t.Fatalf("expected exit %d for unknown topic, got %d", ExitFailure, got)
	}
}

func TestFormat_EDNAndUnknown(t *testing.T) {
	t.Parallel()
	dir := newProject(t, "Thesis")

	out := mustRun(t, dir, "projects", "current", "--format", "edn")
	if !strings.Contains(string(out), `:name "Thesis"`) {
		t.Fatalf("expected edn keyword output, got %s", out)
	}
	if _, _, err := runCLI(t, dir, "projects", "list", "--format", "yaml"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestDecodeKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []lineedit.Key
	}{
		{"ab", []lineedit.Key{lineedit.Rune('a'), lineedit.Rune('b')}},
		{"\x1b", []lineedit.Key{lineedit.Escape}},
		{"\x1b[D\x1b[C", []lineedit.Key{lineedit.Left, lineedit.Right}},
		{"x\r", []lineedit.Key{lineedit.Rune('x'), lineedit.Enter}},
		{"\x7f\x08", []lineedit.Key{lineedit.Backspace, lineedit.Backspace}},
		{"é", []lineedit.Key{lineedit.Rune('é')}},
		{"\x01", nil},
	}
	for _, tt := range tests {
		if got := decodeKeys([]byte(tt.in)); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("decodeKeys(%q)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTermKeys_CtrlCEndsInput(t *testing.T) {
	t.Parallel()

	src := &termKeys{r: strings.NewReader("ab\x03")}
	res, err := lineedit.Run("start", src)
	if err == nil {
		t.Fatalf("expected input to end")
	}
	if res.Committed() || res.Text != "start" {
		t.Fatalf("expected cancel keeping original text, got %+v", res)
	}
}
