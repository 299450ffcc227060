package logreader

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "receiver.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func mustOpen(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.log"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestNextLine_TrimsAndSkipsBlanks(t *testing.T) {
	r := mustOpen(t, writeLog(t, "  first line  \n\n   \nsecond line\n"))

	line, err := r.NextLine()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if line != "first line" {
		t.Fatalf("got %q", line)
	}

	line, err = r.NextLine()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if line != "second line" {
		t.Fatalf("got %q", line)
	}

	if _, err := r.NextLine(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	// Safe to call again after EOF.
	if _, err := r.NextLine(); err != io.EOF {
		t.Fatalf("expected EOF again, got %v", err)
	}
}

func TestNextLine_DropsMalformedBytes(t *testing.T) {
	r := mustOpen(t, writeLog(t, "good \xff\xfe line\n"))

	line, err := r.NextLine()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if line != "good  line" {
		t.Fatalf("got %q", line)
	}
}

func TestNextLine_LastLineWithoutNewline(t *testing.T) {
	r := mustOpen(t, writeLog(t, "only line"))

	line, err := r.NextLine()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if line != "only line" {
		t.Fatalf("got %q", line)
	}
	if _, err := r.NextLine(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestPushBack(t *testing.T) {
	r := mustOpen(t, writeLog(t, "one\ntwo\n"))

	line, _ := r.NextLine()
	if line != "one" {
		t.Fatalf("got %q", line)
	}
	r.PushBack(line)

	line, _ = r.NextLine()
	if line != "one" {
		t.Fatalf("expected pushed-back line, got %q", line)
	}
	line, _ = r.NextLine()
	if line != "two" {
		t.Fatalf("got %q", line)
	}
}

func TestSeekToStart_AlignsToNextLine(t *testing.T) {
	// Offset 3 lands inside "line-a"; the fragment is discarded.
	r := mustOpen(t, writeLog(t, "line-a\nline-b\nline-c\n"))

	found, err := r.SeekToStart(3)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if found {
		t.Fatalf("no lock marker in this log")
	}
	line, err := r.NextLine()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if line != "line-b" {
		t.Fatalf("got %q", line)
	}
}

// The lookahead must not consume input: the first line read after
// SeekToStart is the same whether or not the marker is present.
func TestSeekToStart_LookaheadDoesNotConsume(t *testing.T) {
	withMarker := "junk\nline-b\n#TIMEA,COM1,0,48.5,FINESTEERING,2264,421140.000*ab\nline-d\n"
	withoutMarker := "junk\nline-b\nline-c-no-marker-here-padding-len\nline-d\n"

	for _, content := range []string{withMarker, withoutMarker} {
		r := mustOpen(t, writeLog(t, content))
		found, err := r.SeekToStart(2)
		if err != nil {
			t.Fatalf("seek: %v", err)
		}
		wantFound := content == withMarker
		if found != wantFound {
			t.Fatalf("found=%v, want %v", found, wantFound)
		}
		line, err := r.NextLine()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if line != "line-b" {
			t.Fatalf("got %q after seek", line)
		}
	}
}

func TestSeekToStart_MarkerBeyondWindowNotFound(t *testing.T) {
	content := "junk\n"
	for i := 0; i < lockScanLines; i++ {
		content += "filler line\n"
	}
	content += LockMarker + " too late\n"

	r := mustOpen(t, writeLog(t, content))
	found, err := r.SeekToStart(0)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if found {
		t.Fatalf("marker beyond the scan window must not be found")
	}
}

func TestClose_Idempotent(t *testing.T) {
	r := mustOpen(t, writeLog(t, "x\n"))
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
