package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestColorEnabled(t *testing.T) {
	testCases := []struct {
		name    string
		noColor bool
		env     string
		term    string
		tty     bool
		want    bool
	}{
		{name: "terminal", term: "xterm-256color", tty: true, want: true},
		{name: "flag", noColor: true, tty: true, want: false},
		{name: "NO_COLOR", env: "1", tty: true, want: false},
		{name: "dumb", term: "DUMB", tty: true, want: false},
		{name: "pipe", term: "xterm", tty: false, want: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := colorEnabled(tc.noColor, tc.env, tc.term, tc.tty); got != tc.want {
				t.Fatalf("colorEnabled() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKeyValuesAlignsRight(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	got := KeyValues(KV("Static hostname", "web01"), KV("Chassis", "vm"))
	want := "Static hostname: web01\n        Chassis: vm\n"
	if got != want {
		t.Fatalf("KeyValues() =\n%q\nwant\n%q", got, want)
	}
}

func TestValue(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	if got := Value(""); got != "n/a" {
		t.Fatalf("Value(\"\") = %q, want n/a", got)
	}
	if got := Value("rack 4"); got != "rack 4" {
		t.Fatalf("Value() = %q", got)
	}
}

func TestTableContainsCells(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Table([]string{"ATTRIBUTE", "VALUE"}, [][]string{{"Chassis", "vm"}})
	for _, want := range []string{"ATTRIBUTE", "Chassis", "vm"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Table() missing %q:\n%s", want, out)
		}
	}
}
