package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hejijunhao/logsentry/internal/output"
)

// Output writes reports to a file. Reports go to a temporary file next to
// the destination, which replaces the destination on Close. A run that
// never writes leaves any existing file untouched.
type Output struct {
	mu     sync.Mutex
	f      *os.File
	w      *bufio.Writer
	path   string
	format output.Format
}

// New returns an Output for path. Nothing is created until the first Write.
func New(path string, format output.Format) (*Output, error) {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("file output: %s is a directory", path)
	}
	return &Output{path: path, format: format}, nil
}

// Path returns the destination path.
func (o *Output) Path() string {
	return o.path
}

// Write renders the report into the buffer. Data reaches the destination on Close.
func (o *Output) Write(_ context.Context, r output.Report) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		if err := o.open(); err != nil {
			return err
		}
	}
	if err := output.Render(o.w, r, o.format); err != nil {
		return fmt.Errorf("file output: write: %w", err)
	}
	return nil
}

func (o *Output) open() error {
	dir := filepath.Dir(o.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file output: mkdir %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(o.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriter(f)
	return nil
}

// Close flushes the buffer and moves the finished file into place. Without
// a prior Write it does nothing.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return nil
	}
	f, w := o.f, o.w
	o.f, o.w = nil, nil
	if err := o.commit(f, w); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}

func (o *Output) commit(f *os.File, w *bufio.Writer) error {
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("file output: flush: %w", err)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return fmt.Errorf("file output: chmod: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("file output: close: %w", err)
	}
	if err := os.Rename(f.Name(), o.path); err != nil {
		return fmt.Errorf("file output: rename to %s: %w", o.path, err)
	}
	return nil
}
