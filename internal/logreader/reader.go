// Package logreader owns the input side of the pipeline: a forward-only
// line producer over a receiver log file, with byte-offset seeking and a
// bounded lookahead for the receiver's lock-quality marker.
package logreader

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

// LockMarker is the time-status token indicating the receiver holds a
// stable navigation solution.
const LockMarker = "FINESTEERING"

// lockScanLines bounds the lookahead for LockMarker after seeking.
const lockScanLines = 100

const readBufSize = 64 * 1024

// Reader reads a receiver log line by line. Lines are whitespace-trimmed,
// blank lines are skipped and malformed byte sequences are dropped rather
// than surfaced. The cursor only moves forward; the lock lookahead in
// SeekToStart restores its position before returning.
type Reader struct {
	f       *os.File
	br      *bufio.Reader
	pending []string
	closed  bool
}

// Open opens the log at path. A missing file satisfies
// errors.Is(err, fs.ErrNotExist) so callers can distinguish it from other
// I/O failures.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		f:  f,
		br: bufio.NewReaderSize(f, readBufSize),
	}, nil
}

// SeekToStart moves the cursor to offset, discards the remainder of the
// line straddling it to realign with a message boundary, then scans up to
// lockScanLines lines for LockMarker. The scan does not consume input: the
// cursor is restored to the aligned position regardless of the outcome.
// A missing marker is a soft condition; parsing proceeds either way.
func (r *Reader) SeekToStart(offset int64) (bool, error) {
	if _, err := r.f.Seek(offset, io.SeekStart); err != nil {
		return false, err
	}
	r.br = bufio.NewReaderSize(r.f, readBufSize)
	r.pending = nil

	frag, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	aligned := offset + int64(len(frag))

	found := false
	for i := 0; i < lockScanLines; i++ {
		line, err := r.br.ReadString('\n')
		if strings.Contains(line, LockMarker) {
			found = true
			break
		}
		if err != nil {
			break
		}
	}

	if _, err := r.f.Seek(aligned, io.SeekStart); err != nil {
		return found, err
	}
	r.br = bufio.NewReaderSize(r.f, readBufSize)
	return found, nil
}

// NextLine returns the next non-blank line, trimmed, with invalid byte
// sequences dropped. It returns io.EOF once the stream is exhausted and is
// safe to call repeatedly after that.
func (r *Reader) NextLine() (string, error) {
	if n := len(r.pending); n > 0 {
		line := r.pending[0]
		r.pending = r.pending[1:]
		return line, nil
	}
	for {
		raw, err := r.br.ReadString('\n')
		if len(raw) > 0 {
			line := strings.TrimSpace(strings.ToValidUTF8(raw, ""))
			if line != "" {
				return line, nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", err
		}
	}
}

// PushBack returns a line to the reader so the next NextLine call yields it
// again. Used when multi-line group collection over-reads by one line.
func (r *Reader) PushBack(line string) {
	r.pending = append(r.pending, line)
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}
