package export

import (
	"io/fs"
	"os"
)

// Sink receives the directories and files of an extraction
type Sink interface {
	MkdirAll(path string, perm fs.FileMode) error
	WriteFile(path string, data []byte, perm fs.FileMode) error
}

// DiskSink writes to the host filesystem
type DiskSink struct{}

func (DiskSink) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (DiskSink) WriteFile(path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

var _ Sink = DiskSink{}
