package identity

import (
	"context"
	"slices"
	"testing"

	"hostnamed"
	"hostnamed/internal/telemetry"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetTracesStepsAndPhases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		attr       hostnamed.Attribute
		denied     bool
		wantSteps  []string
		wantPhases []string
	}{
		{
			name:      "machine info",
			attr:      hostnamed.Chassis,
			wantSteps: []string{"authorize", "validate", "persist", "commit"},
			wantPhases: []string{
				"received", "authorization-pending", "validating", "persisting", "committed",
			},
		},
		{
			name:      "runtime hostname",
			attr:      hostnamed.Hostname,
			wantSteps: []string{"authorize", "validate", "apply", "commit"},
			wantPhases: []string{
				"received", "authorization-pending", "validating", "persisting", "committed",
			},
		},
		{
			name:       "denied",
			attr:       hostnamed.Location,
			denied:     true,
			wantSteps:  []string{"authorize"},
			wantPhases: []string{"received", "authorization-pending", "denied"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			h := newHarness(WithTracer(provider.Tracer("test")))
			if tt.denied {
				h.auth.errs = map[string]error{flows[tt.attr].action: ErrNotAuthorized}
			}

			_, _ = h.engine.Set(context.Background(), Request{Attribute: tt.attr, Value: "vm", Sender: ":1.9"})

			var root sdktrace.ReadOnlySpan
			var steps []string
			for _, span := range recorder.Ended() {
				if span.Name() == "hostnamed.set" {
					root = span
					continue
				}
				steps = append(steps, span.Name())
			}
			if root == nil {
				t.Fatal("missing hostnamed.set span")
			}
			if !slices.Equal(steps, tt.wantSteps) {
				t.Fatalf("steps = %v, want %v", steps, tt.wantSteps)
			}

			var phases []string
			for _, ev := range root.Events() {
				for _, kv := range ev.Attributes {
					if string(kv.Key) == telemetry.PhaseKey {
						phases = append(phases, kv.Value.AsString())
					}
				}
			}
			if !slices.Equal(phases, tt.wantPhases) {
				t.Fatalf("phases = %v, want %v", phases, tt.wantPhases)
			}
		})
	}
}
