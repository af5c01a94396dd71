package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brettbedarf/romfs"
	"github.com/brettbedarf/romfs/config"
	"github.com/brettbedarf/romfs/internal/util"
)

// ErrUnsafeName is returned for entry names that would place output outside
// the destination directory
var ErrUnsafeName = errors.New("unsafe entry name")

// Extractor materializes a tree onto a [Sink]
type Extractor struct {
	cfg  *config.Config
	sink Sink
}

// NewExtractor creates an Extractor. A nil cfg uses the defaults and a nil
// sink writes to disk.
func NewExtractor(cfg *config.Config, sink Sink) *Extractor {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if sink == nil {
		sink = DiskSink{}
	}
	return &Extractor{cfg: cfg, sink: sink}
}

type fileJob struct {
	path string
	data []byte
}

// Extract creates dest/<root name> and below it a directory for every
// directory node except "." and ".." entries and a file for every file node.
// Directories are created up front; files are then written by
// cfg.ExtractWorkers workers. The first error stops the remaining writes and
// is returned along with the partial report.
func (x *Extractor) Extract(ctx context.Context, root *romfs.Node, dest string) (*Report, error) {
	report := newReport(dest)
	logger := util.GetLogger("Extract").With().Str("run", report.RunID.String()).Logger()
	logger.Debug().Str("dest", dest).Str("volume", root.Name).Msg("Extracting tree")

	var jobs []fileJob
	if err := x.plan(ctx, root, dest, true, report, &jobs); err != nil {
		logger.Error().Err(err).Msg("Failed to create directories")
		return report, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	perm := fs.FileMode(x.cfg.FilePerm)
	ch := make(chan fileJob)
	var wg sync.WaitGroup
	for range max(1, x.cfg.ExtractWorkers) {
		wg.Go(func() {
			for job := range ch {
				if ctx.Err() != nil {
					continue
				}
				if err := x.sink.WriteFile(job.path, job.data, perm); err != nil {
					cancel(fmt.Errorf("write file %s: %w", job.path, err))
					continue
				}
				report.recordFile(job.path, len(job.data))
				logger.Trace().Str("path", job.path).Int("size", len(job.data)).Msg("Wrote file")
			}
		})
	}

feed:
	for _, job := range jobs {
		select {
		case ch <- job:
		case <-ctx.Done():
			break feed
		}
	}
	close(ch)
	wg.Wait()

	if err := context.Cause(ctx); err != nil {
		logger.Error().Err(err).Int("files", report.Files()).Msg("Extraction stopped")
		return report, err
	}
	logger.Info().Int("directories", report.Dirs).Int("files", report.Files()).
		Int64("bytes", report.Bytes()).Msg("Extracted tree")
	return report, nil
}

// plan creates n's directory (recursively) and queues its files
func (x *Extractor) plan(ctx context.Context, n *romfs.Node, parent string, isRoot bool, report *Report, jobs *[]fileJob) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}

	switch {
	case n.IsSelf():
		return nil
	case n.IsDir() && n.Name == ".." && !isRoot:
		// a directory-typed parent reference; the parent already exists
		logger := util.GetLogger("Extract")
		logger.Debug().Str("parent", parent).Uint32("entry", n.EntryStart).Msg("Skipping .. directory entry")
		report.Skipped++
		return nil
	case n.IsDir(), n.Type == romfs.FileNodeType:
	default:
		report.Skipped++
		return nil
	}

	// an unnamed root extracts straight into dest
	if !isRoot || n.Name != "" {
		if err := checkName(n.Name); err != nil {
			return err
		}
	}
	p := filepath.Join(parent, n.Name)

	if n.Type == romfs.FileNodeType {
		*jobs = append(*jobs, fileJob{path: p, data: n.Content})
		return nil
	}

	if err := x.sink.MkdirAll(p, fs.FileMode(x.cfg.DirPerm)); err != nil {
		return fmt.Errorf("create directory %s: %w", p, err)
	}
	report.Dirs++
	for _, c := range n.Children {
		if err := x.plan(ctx, c, p, false, report, jobs); err != nil {
			return err
		}
	}
	return nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return nil
}
