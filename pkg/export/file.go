package export

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/chunkstore/pkg/compression"
	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
)

// Result describes a finished export.
type Result struct {
	Path         string `json:"path"`
	Rows         int64  `json:"rows"`
	Batches      int    `json:"batches"`
	Compression  string `json:"compression"`
	BytesWritten int64  `json:"bytes_written"`
}

// WriteFile writes t to path as an Arrow IPC file passed through comp. The
// IPC encoder and the compressor run concurrently over a pipe. Output goes to
// a temporary file in the same directory that replaces path only once it is
// complete, so a failed export leaves path untouched.
func WriteFile(ctx context.Context, path string, t *storage.Table, comp compression.Compressor) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to create %s", path)
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	counter := &countingWriter{w: f}
	pr, pw := io.Pipe()
	var g errgroup.Group

	// The side that fails first closes the pipe, which makes the other side
	// fail too; cause keeps the first error.
	var (
		once  sync.Once
		cause error
	)
	fail := func(err error) {
		if err != nil {
			once.Do(func() { cause = err })
		}
	}

	var rows int64
	g.Go(func() error {
		n, err := WriteIPC(pw, t)
		rows = n
		fail(err)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		err := comp.CompressStream(counter, pr)
		fail(err)
		pr.CloseWithError(err)
		return err
	})
	if err := g.Wait(); err != nil {
		if cause != nil {
			return nil, cause
		}
		return nil, err
	}
	if err := f.Chmod(0o644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to set mode of %s", path)
	}
	if err := f.Sync(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to sync %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to close %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to move export into %s", path)
	}
	committed = true

	result := &Result{
		Path:         path,
		Rows:         rows,
		Batches:      t.ChunkCount(),
		Compression:  string(comp.Algorithm()),
		BytesWritten: counter.n,
	}
	logger.WithContext(ctx).Debug("table exported",
		zap.String("path", path),
		zap.Int64("rows", rows),
		zap.String("compression", result.Compression),
		zap.Int64("bytes", counter.n))
	return result, nil
}

// ReadFile reverses WriteFile. The whole decompressed file is buffered since
// the Arrow file footer is read first.
func ReadFile(path string, comp compression.Compressor, defaultChunkSize uint32, opts ...storage.Option) (*storage.Table, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to open %s", path)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := comp.DecompressStream(&buf, f); err != nil {
		return nil, err
	}
	return ReadIPC(bytes.NewReader(buf.Bytes()), defaultChunkSize, opts...)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
