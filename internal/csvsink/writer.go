// Package csvsink routes decoded records to per-message-type CSV files.
// Every channel is created up front with a fixed header row, whether or not
// any record of that type ever arrives, and all channels close together.
package csvsink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"oem719parse/internal/oem719"
)

// Output files carry a UTF-8 BOM to match the reference captures, which
// were produced for spreadsheet import.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fileName maps a channel to its on-disk CSV name.
func fileName(t oem719.MessageType) string {
	switch t {
	case oem719.TypeBESTXYZ:
		return "BESTXYZ.csv"
	case oem719.TypeRAW:
		return "GPS RAW DATA.csv"
	default:
		return fmt.Sprintf("GPS %s.csv", t)
	}
}

// Router owns one CSV writer per output channel and tracks how many rows
// each has admitted.
type Router struct {
	dir     string
	files   map[oem719.MessageType]*os.File
	writers map[oem719.MessageType]*csv.Writer
	counts  map[oem719.MessageType]int
	closed  bool
}

// OpenRouter creates dir if needed and opens every channel, writing each
// header row immediately. On any failure the channels opened so far are
// closed before the error is returned.
func OpenRouter(dir string) (*Router, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	r := &Router{
		dir:     dir,
		files:   make(map[oem719.MessageType]*os.File),
		writers: make(map[oem719.MessageType]*csv.Writer),
		counts:  make(map[oem719.MessageType]int),
	}
	for _, t := range oem719.Channels {
		f, err := os.Create(filepath.Join(dir, fileName(t)))
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("create %s sink: %w", t, err)
		}
		r.files[t] = f
		if _, err := f.Write(utf8BOM); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("write %s sink: %w", t, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(headersFor(t)); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("write %s header: %w", t, err)
		}
		r.writers[t] = w
	}
	return r, nil
}

// WriteRow appends fields to the channel for t and bumps its count. It
// reports false only for an unknown channel; sinks are pre-registered for
// every known type, so callers may treat false as a programming error.
func (r *Router) WriteRow(t oem719.MessageType, fields []string) bool {
	w, ok := r.writers[t]
	if !ok {
		return false
	}
	_ = w.Write(fields)
	r.counts[t]++
	return true
}

// Count returns the number of rows admitted to the channel for t.
func (r *Router) Count(t oem719.MessageType) int { return r.counts[t] }

// Counts returns a copy of all per-channel admitted counts.
func (r *Router) Counts() map[oem719.MessageType]int {
	out := make(map[oem719.MessageType]int, len(r.counts))
	for t, n := range r.counts {
		out[t] = n
	}
	return out
}

// Close flushes and closes every channel. Safe to call more than once; the
// first error encountered is returned.
func (r *Router) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for t, w := range r.writers {
		w.Flush()
		if err := w.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush %s sink: %w", t, err)
		}
	}
	for t, f := range r.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s sink: %w", t, err)
		}
	}
	return firstErr
}
