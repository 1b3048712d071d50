package driver

import "time"

// FileStatus reports where a file is in a multi-file run.
type FileStatus int

const (
	FileStart FileStatus = iota
	FileDone
	FileFailed
)

func (s FileStatus) String() string {
	switch s {
	case FileStart:
		return "start"
	case FileDone:
		return "done"
	case FileFailed:
		return "failed"
	}
	return "unknown"
}

// FileEvent describes a file boundary during TranspileFiles.
type FileEvent struct {
	Path    string
	Index   int
	Total   int
	Status  FileStatus
	Cached  bool
	Elapsed time.Duration
}

// Observer receives file events. It may be called from several goroutines
// at once.
type Observer func(FileEvent)

func (o Observer) emit(ev FileEvent) {
	if o != nil {
		o(ev)
	}
}
