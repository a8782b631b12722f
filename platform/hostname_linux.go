//go:build linux

package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Host talks to the running kernel.
type Host struct{}

// Hostname returns the kernel's current nodename.
func (Host) Hostname() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uts.Nodename[:]), nil
}

// SetHostname changes the kernel's nodename. The returned error carries
// the errno text unwrapped so callers can surface it as-is.
func (Host) SetHostname(name string) error {
	return unix.Sethostname([]byte(name))
}
