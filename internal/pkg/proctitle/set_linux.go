//go:build linux

package proctitle

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/unix"
)

// linuxCommMax is the comm field size minus the trailing NUL.
const linuxCommMax = 15

// Set applies "name:role" as the thread name via PR_SET_NAME.
func Set(name, role string) error {
	title := compose(name, role, linuxCommMax)
	if title == "" {
		return errors.New("empty process title")
	}
	b := make([]byte, linuxCommMax+1)
	copy(b, title)
	return unix.Prctl(unix.PR_SET_NAME, uintptr(unsafe.Pointer(&b[0])), 0, 0, 0)
}
