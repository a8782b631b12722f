// Package platform defines compile-time OS defaults and the host-facing
// operations hostnamed needs from the kernel and firmware.
//
// Platform split:
//   - linux: uname(2)/sethostname(2) through golang.org/x/sys/unix
//   - other: read-only host; SetHostname reports ErrUnsupported
//
// Firmware probing (GuessIcon) reads sysfs and works against any root
// so tests can point it at a synthetic tree.
package platform
