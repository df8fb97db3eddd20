// Package cli implements the interactive console: admin login, the numbered
// main menu and the rendering of students, courses and statistics.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Colour modes accepted by ColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled resolves a colour mode against whether stdout is a terminal.
func ColorEnabled(mode string, isTTY bool) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTTY
	}
}

// Stdout returns a writer for the console and whether ANSI colours should be
// used on it. On Windows consoles the writer translates escape sequences.
func Stdout(mode string) (io.Writer, bool) {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return colorable.NewColorableStdout(), ColorEnabled(mode, tty)
}

// ══════════════════════════════════════════════════════════════════════════════
// ANSI PALETTE
// ══════════════════════════════════════════════════════════════════════════════

const (
	ansiReset       = "\033[0m"
	ansiBold        = "\033[1m"
	ansiRedBold     = "\033[1;31m"
	ansiGreenBold   = "\033[1;32m"
	ansiYellowBold  = "\033[1;33m"
	ansiCyanBold    = "\033[1;36m"
	ansiBrightBlue  = "\033[0;94m"
	ansiBrightGreen = "\033[0;92m"
	ansiBrightCyan  = "\033[0;96m"
	ansiBrightWhite = "\033[1;97m"
)

// palette wraps text in ANSI codes when enabled.
type palette struct {
	enabled bool
}

func (p palette) paint(text string, codes ...string) string {
	if !p.enabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}
