// ABOUTME: Shared output helpers for CLI commands
// ABOUTME: Table writer, placeholders for empty fields and terminal-aware prompts
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// stdout and stdin are swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// interactive reports whether stdin is a terminal.
func interactive() bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirm asks a yes/no question on a terminal. Non-interactive input always confirms.
func confirm(question string) bool {
	if !interactive() {
		return true
	}
	_, _ = fmt.Fprintf(stdout, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
