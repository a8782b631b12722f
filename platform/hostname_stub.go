//go:build !linux

package platform

import (
	"errors"
	"os"
)

// Host reads the hostname through the os package and refuses changes.
type Host struct{}

func (Host) Hostname() (string, error) {
	return os.Hostname()
}

func (Host) SetHostname(string) error {
	return errors.ErrUnsupported
}
