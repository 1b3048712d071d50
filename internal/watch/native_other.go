//go:build !linux

package watch

// Without inotify every platform polls.
func newNative() (backend, error) { return nil, nil }
