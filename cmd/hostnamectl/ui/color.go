package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	envNoColor = "NO_COLOR"
	envTerm    = "TERM"
)

// ConfigureColor picks the lipgloss color profile for stdout. Color is
// off when noColor is set, NO_COLOR is set, TERM is dumb, or stdout is
// not a terminal.
func ConfigureColor(noColor bool) {
	if colorEnabled(noColor, os.Getenv(envNoColor), os.Getenv(envTerm), stdoutIsTerminal()) {
		lipgloss.SetColorProfile(termenv.ColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

func colorEnabled(noColor bool, noColorEnv, term string, tty bool) bool {
	if noColor || noColorEnv != "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(term), "dumb") {
		return false
	}
	return tty
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
