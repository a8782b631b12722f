package identity

import (
	"context"
	"errors"
	"sync"

	"hostnamed"
	"hostnamed/internal/shellconf"
)

type authCall struct {
	sender      string
	action      string
	interactive bool
}

// fakeAuthorizer grants everything unless errs names the action. An
// action in block waits for its channel to close before answering.
type fakeAuthorizer struct {
	mu      sync.Mutex
	calls   []authCall
	errs    map[string]error
	block   map[string]chan struct{}
	entered chan string
}

func (a *fakeAuthorizer) CheckAuthorization(ctx context.Context, sender, action string, interactive bool) error {
	a.mu.Lock()
	a.calls = append(a.calls, authCall{sender: sender, action: action, interactive: interactive})
	wait := a.block[action]
	err := a.errs[action]
	entered := a.entered
	a.mu.Unlock()

	if entered != nil {
		entered <- action
	}
	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (a *fakeAuthorizer) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

// fakeStore keeps assignments in memory and answers Source for the plain
// ${KEY} form.
type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	saves  int
	err    error
}

func newFakeStore(values map[string]string) *fakeStore {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeStore{values: values}
}

func (s *fakeStore) Source(expr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	if len(expr) > 3 && expr[:2] == "${" && expr[len(expr)-1] == '}' {
		return s.values[expr[2:len(expr)-1]], nil
	}
	return "", errors.New("unsupported expression")
}

func (s *fakeStore) SetAndSave(assignments ...shellconf.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.err != nil {
		return s.err
	}
	for _, a := range assignments {
		s.values[a.Key] = a.Value
	}
	return nil
}

func (s *fakeStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type fakeHost struct {
	mu    sync.Mutex
	name  string
	sets  []string
	err   error
	setFn func(string) error
}

func (h *fakeHost) Hostname() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return "", h.err
	}
	return h.name, nil
}

func (h *fakeHost) SetHostname(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sets = append(h.sets, name)
	if h.setFn != nil {
		return h.setFn(name)
	}
	h.name = name
	return nil
}

type fakeIcons string

func (f fakeIcons) GuessIcon() string { return string(f) }

type recordingPublisher struct {
	mu      sync.Mutex
	changes []hostnamed.Change
}

func (p *recordingPublisher) Publish(change hostnamed.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
}

func (p *recordingPublisher) recorded() []hostnamed.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]hostnamed.Change(nil), p.changes...)
}
