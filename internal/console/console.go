// Package console prints the operator-facing status lines.
// Every connector operation reports a single glyph-prefixed line (success or
// failure) here; this output is the CLI's human "API" and is kept separate
// from the verbose logger.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stdout
	input  io.Reader = os.Stdin
)

// SetOutput redirects status output. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetInput redirects confirmation input. Useful for testing.
func SetInput(r io.Reader) {
	mu.Lock()
	defer mu.Unlock()
	input = r
}

// OK prints a success status line.
func OK(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "%s %s\n", okStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// Fail prints a failure status line.
func Fail(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "%s %s\n", failStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// Warn prints a warning status line.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, "%s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, args...))
}

// Print prints a plain line with no glyph.
func Print(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(output, format+"\n", args...)
}

// Confirm asks a yes/no question and returns true only for an explicit
// "yes" or "y" answer. Anything else, including a read error, is a decline.
func Confirm(prompt string) bool {
	mu.Lock()
	defer mu.Unlock()

	fmt.Fprintf(output, "%s (yes/no): ", prompt)
	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y"
}
