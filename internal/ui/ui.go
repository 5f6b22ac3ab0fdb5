package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color/style codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	cyan   = "\033[36m"
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	white  = "\033[97m"
)

var out io.Writer = os.Stderr

// SetOutput redirects all ui output. Styling is only applied when the
// writer is a terminal.
func SetOutput(w io.Writer) {
	out = w
}

func isTTY() bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// s wraps text with ANSI codes only when the output is a TTY.
func s(codes, text string) string {
	if !isTTY() {
		return text
	}
	return codes + text + reset
}

func line(symbol, color, format string, a []any) {
	fmt.Fprintf(out, "  %s %s\n", s(color, symbol), fmt.Sprintf(format, a...))
}

// Banner prints the startup banner.
//
//	hemu v0.1.0
func Banner(version string) {
	fmt.Fprintf(out, "\n  %s %s\n", s(bold+cyan, "hemu"), s(dim, "v"+version))
}

// UpdateNotice prints a boxed update notice.
//
//	┌ Update available: 0.1.0 → 0.2.0
//	└ https://github.com/...
func UpdateNotice(current, latest, downloadURL string) {
	fmt.Fprintf(out, "\n  %s %s %s %s %s\n",
		s(yellow, "┌"),
		s(dim, "Update available:"),
		s(dim, current),
		s(yellow, "→"),
		s(bold+green, latest),
	)
	fmt.Fprintf(out, "  %s %s\n", s(yellow, "└"), s(dim, downloadURL))
}

// KeyValue prints a labeled line:  ▸ label  value
func KeyValue(label, value string) {
	fmt.Fprintf(out, "  %s %-11s %s\n", s(cyan, "▸"), s(dim, label), s(white, value))
}

func Info(format string, a ...any)    { line("●", cyan, format, a) }
func Success(format string, a ...any) { line("✔", green, format, a) }
func Warn(format string, a ...any)    { line("▲", yellow, format, a) }
func Error(format string, a ...any)   { line("✖", red, format, a) }

// Separator prints a dim horizontal line.
func Separator() {
	fmt.Fprintf(out, "  %s\n", s(dim, strings.Repeat("─", 48)))
}

// Dim wraps text in dim style (for use in other formatted output).
func Dim(text string) string {
	return s(dim, text)
}
