package historycmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"hostnamed"
	"hostnamed/internal/journal"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type fakeLister struct {
	entries []journal.Entry
	limit   int
}

func (f *fakeLister) List(_ context.Context, limit int) ([]journal.Entry, error) {
	f.limit = limit
	return f.entries, nil
}

func TestRender(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	l := &fakeLister{entries: []journal.Entry{
		{ID: 2, Change: hostnamed.Change{Attribute: hostnamed.Chassis, Value: "vm", Sender: ":1.8", At: time.Now()}},
		{ID: 1, Change: hostnamed.Change{Attribute: hostnamed.Location, Value: "", Sender: ":1.7", At: time.Now()}},
	}}
	var out bytes.Buffer
	if err := Render(context.Background(), &out, l, 5); err != nil {
		t.Fatalf("Render error = %v", err)
	}
	if l.limit != 5 {
		t.Fatalf("limit = %d, want 5", l.limit)
	}
	for _, want := range []string{"ATTRIBUTE", "Chassis", ":1.8", "Location", "n/a"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	var out bytes.Buffer
	if err := Render(context.Background(), &out, &fakeLister{}, 0); err != nil {
		t.Fatalf("Render error = %v", err)
	}
	if !strings.Contains(out.String(), "No changes recorded.") {
		t.Fatalf("output = %q", out.String())
	}
}
