//go:build linux

package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

const inotifyMask = unix.IN_CLOSE_WRITE | unix.IN_MOVED_TO | unix.IN_CREATE | unix.IN_MODIFY

type inotify struct {
	fd   int
	mu   sync.Mutex
	dirs map[int]string
}

func newNative() (backend, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}
	return &inotify{fd: fd, dirs: make(map[int]string)}, nil
}

func (w *inotify) add(dir string) error {
	wd, err := unix.InotifyAddWatch(w.fd, dir, inotifyMask)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.mu.Lock()
	w.dirs[wd] = dir
	w.mu.Unlock()
	return nil
}

func (w *inotify) run(ctx context.Context, notify func(string, bool)) error {
	buf := make([]byte, (unix.SizeofInotifyEvent+unix.NAME_MAX+1)*16)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := unix.Read(w.fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(50 * time.Millisecond):
				}
				continue
			}
			if errors.Is(err, unix.EBADF) {
				return nil
			}
			return fmt.Errorf("read inotify events: %w", err)
		}

		offset := 0
		for offset+unix.SizeofInotifyEvent <= n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameStart := offset + unix.SizeofInotifyEvent
			offset = nameStart + int(event.Len)
			if offset > n {
				break
			}
			name := string(bytes.TrimRight(buf[nameStart:offset], "\x00"))
			if name == "" {
				continue
			}
			w.mu.Lock()
			dir := w.dirs[int(event.Wd)]
			w.mu.Unlock()
			if dir == "" {
				continue
			}
			isDir := event.Mask&unix.IN_ISDIR != 0
			if isDir && event.Mask&(unix.IN_CREATE|unix.IN_MOVED_TO) == 0 {
				continue
			}
			notify(filepath.Join(dir, name), isDir)
		}
	}
}

func (w *inotify) close() error {
	return unix.Close(w.fd)
}
