package driver

import "time"

// FileStatus reports whether a file started or finished.
type FileStatus int

const (
	// FileStart indicates that analysis of a file has begun.
	FileStart FileStatus = iota
	FileDone
)

// FileEvent describes a file boundary of a multi-file run.
type FileEvent struct {
	Path    string
	Index   int // position in the input list
	Total   int
	Status  FileStatus
	Elapsed time.Duration
	// Result is set for FileDone.
	Result *FileResult
}

// Observer receives file events emitted during AnalyzeFiles. It is called
// from worker goroutines and must be safe for concurrent use.
type Observer func(FileEvent)

func (o Observer) emit(ev FileEvent) {
	if o != nil {
		o(ev)
	}
}
