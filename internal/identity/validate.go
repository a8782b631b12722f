package identity

import (
	"regexp"
	"strconv"

	"hostnamed"
	"hostnamed/platform"
)

var hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,` + strconv.Itoa(platform.HostNameMax) + `}$`)

// ValidHostname reports whether name is acceptable as a hostname: one to
// HostNameMax characters from letters, digits, '_', '.' and '-'.
func ValidHostname(name string) bool {
	return hostnamePattern.MatchString(name)
}

// normalizeHostname falls back to the static hostname, then to
// "localhost", when name is not a valid hostname.
func normalizeHostname(s *State, name string) string {
	if ValidHostname(name) {
		return name
	}
	if static := s.Get(hostnamed.StaticHostname); ValidHostname(static) {
		return static
	}
	return platform.FallbackHostname
}

func normalizeStaticHostname(_ *State, name string) string {
	if ValidHostname(name) {
		return name
	}
	return platform.FallbackHostname
}

// Machine-info values are free-form; an absent value is already "".
func normalizeFreeform(_ *State, value string) string {
	return value
}
