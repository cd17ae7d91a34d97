package main

import (
	"os"
	"strconv"
	"strings"

	"outline-cli/internal/cli"
)

func isLineNumber(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

// rewriteDirectLineArgs makes `outline 7` work like `outline sentences show 7`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first (`outline --db ./x 7`), so we look for the
// first positional token rather than argv[1].
func rewriteDirectLineArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value, so a line number is never
	// swallowed as a flag value by mistake.
	valueFlags := map[string]bool{
		"--config-dir": true,
		"--db":         true,
		"--format":     true,
		"--log-level":  true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "sentences", "show")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isLineNumber(argv[i+1]) {
				return insert(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isLineNumber(a) {
			return insert(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectLineArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
