//go:build !linux

package proctitle

// Set is a no-op outside Linux.
func Set(name, role string) error { return nil }
