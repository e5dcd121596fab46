package report

import (
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/robuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.SizeMeasurer = (*GzipMeasurer)(nil)

// GzipMeasurer computes gzip sizes of files in parallel.
type GzipMeasurer struct {
	limit int
}

// NewGzipMeasurer creates a measurer using one worker per CPU.
func NewGzipMeasurer() *GzipMeasurer {
	return &GzipMeasurer{limit: runtime.NumCPU()}
}

// GzipSizes returns the compressed size of every path. Files are only read.
func (m *GzipMeasurer) GzipSizes(ctx context.Context, paths []string) (map[string]int64, error) {
	var mu sync.Mutex
	sizes := make(map[string]int64, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.limit, 1))
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			size, err := gzipSize(path)
			if err != nil {
				return err
			}
			mu.Lock()
			sizes[path] = size
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sizes, nil
}

func gzipSize(path string) (int64, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from the build report
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var counter countingWriter
	zw, err := gzip.NewWriterLevel(&counter, gzip.BestCompression)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to create gzip writer")
	}
	if _, err := io.Copy(zw, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to compress file"), "path", path)
	}
	if err := zw.Close(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to compress file"), "path", path)
	}
	return counter.n, nil
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
