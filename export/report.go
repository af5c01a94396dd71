package export

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"
)

// Report summarizes one extraction. It is written by the extraction workers
// and safe to read once Extract returns.
type Report struct {
	RunID   uuid.UUID
	Dest    string
	Dirs    int
	Skipped int // entries that are neither files nor directories
	written *xsync.Map[string, int]
	bytes   *xsync.Counter
}

func newReport(dest string) *Report {
	return &Report{
		RunID:   uuid.New(),
		Dest:    dest,
		written: xsync.NewMap[string, int](),
		bytes:   xsync.NewCounter(),
	}
}

func (r *Report) recordFile(path string, n int) {
	r.written.Store(path, n)
	r.bytes.Add(int64(n))
}

// Files returns the number of files written
func (r *Report) Files() int {
	return r.written.Size()
}

// Bytes returns the total number of content bytes written
func (r *Report) Bytes() int64 {
	return r.bytes.Value()
}

// Written returns a snapshot of written file paths and their sizes
func (r *Report) Written() map[string]int {
	out := make(map[string]int, r.written.Size())
	r.written.Range(func(path string, n int) bool {
		out[path] = n
		return true
	})
	return out
}
