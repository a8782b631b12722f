package identity

import (
	"sync"
	"sync/atomic"

	"hostnamed"
)

const (
	attributeCount = int(hostnamed.Location) + 1
	groupCount     = int(hostnamed.GroupMachineInfo) + 1
)

// State holds the current attribute values. Writers serialize per lock
// group; readers never lock and always see a whole value.
type State struct {
	values [attributeCount]atomic.Pointer[string]
	groups [groupCount]sync.Mutex
}

// NewState seeds a State from a startup snapshot.
func NewState(initial hostnamed.Snapshot) *State {
	s := &State{}
	for _, a := range hostnamed.Attributes() {
		v := initial.Get(a)
		s.values[a].Store(&v)
	}
	return s
}

// Get returns the current value of a.
func (s *State) Get(a hostnamed.Attribute) string {
	if !a.Valid() {
		return ""
	}
	if p := s.values[a].Load(); p != nil {
		return *p
	}
	return ""
}

// Snapshot returns every current value. Values from different groups may
// straddle a concurrent commit.
func (s *State) Snapshot() hostnamed.Snapshot {
	var snap hostnamed.Snapshot
	for _, a := range hostnamed.Attributes() {
		snap = snap.Set(a, s.Get(a))
	}
	return snap
}

// lock acquires g and returns its release.
func (s *State) lock(g hostnamed.Group) func() {
	mu := &s.groups[g]
	mu.Lock()
	return mu.Unlock
}

// commit stores value. The caller holds a's group lock.
func (s *State) commit(a hostnamed.Attribute, value string) {
	s.values[a].Store(&value)
}
