package csvsink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"

	"oem719parse/internal/oem719"
)

func openRouter(t *testing.T) (*Router, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	r, err := OpenRouter(dir)
	if err != nil {
		t.Fatalf("open router: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, dir
}

func TestOpenRouter_CreatesEveryChannel(t *testing.T) {
	_, dir := openRouter(t)

	for _, name := range []string{
		"BESTXYZ.csv", "GPS TIME.csv", "GPS PSRDOP.csv",
		"GPS HWMONITOR.csv", "GPS GPGSV.csv", "GPS RAW DATA.csv",
	} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(b) < 3 || b[0] != 0xEF || b[1] != 0xBB || b[2] != 0xBF {
			t.Fatalf("%s missing UTF-8 BOM", name)
		}
	}
}

func TestWriteRow_UnknownTypeRejected(t *testing.T) {
	r, _ := openRouter(t)

	if r.WriteRow("BOGUS", []string{"a", "b"}) {
		t.Fatalf("unknown channel must be rejected")
	}
	if !r.WriteRow(oem719.TypeTIME, []string{"a", "b"}) {
		t.Fatalf("known channel rejected")
	}
	if got := r.Count(oem719.TypeTIME); got != 1 {
		t.Fatalf("count=%d, want 1", got)
	}
	if got := r.Count("BOGUS"); got != 0 {
		t.Fatalf("bogus count=%d, want 0", got)
	}
}

func TestCounts_PerChannel(t *testing.T) {
	r, _ := openRouter(t)

	r.WriteRow(oem719.TypeRAW, []string{"t", "x"})
	r.WriteRow(oem719.TypeRAW, []string{"t", "y"})
	r.WriteRow(oem719.TypeGPGSV, []string{"t", "8"})

	counts := r.Counts()
	if counts[oem719.TypeRAW] != 2 || counts[oem719.TypeGPGSV] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if counts[oem719.TypeBESTXYZ] != 0 {
		t.Fatalf("untouched channel count=%d", counts[oem719.TypeBESTXYZ])
	}

	// Counts returns a copy.
	counts[oem719.TypeRAW] = 99
	if r.Count(oem719.TypeRAW) != 2 {
		t.Fatalf("Counts must not alias internal state")
	}
}

func TestPSRDOPFile_Golden(t *testing.T) {
	r, dir := openRouter(t)

	r.WriteRow(oem719.TypePSRDOP, []string{
		"01/01/2024 12:00:00.000 PM", "#PSRDOPA",
		"COM1", "0", "54.0", "FINESTEERING", "2264", "421140.000", "02000020", "c84c", "32768",
		"1.9695", "1.7613", "0.8830", "1.5244", "1.1146", "4.0",
	})
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "GPS PSRDOP.csv"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	want := "\ufeff" + strings.Join([]string{
		"Timestamp,Message,Port,Sequence,Idle Time,Time Status,Week,Seconds,Receiver Status,Reserved,SW Version,GDOP,PDOP,HDOP,HTDOP,TDOP,Elevation Cutoff (deg)",
		"01/01/2024 12:00:00.000 PM,#PSRDOPA,COM1,0,54.0,FINESTEERING,2264,421140.000,02000020,c84c,32768,1.9695,1.7613,0.8830,1.5244,1.1146,4.0",
		"",
	}, "\n")
	if d := diff.Diff(want, string(b)); d != "" {
		t.Errorf("GPS PSRDOP.csv mismatch (-want +got):\n%s", d)
	}
}

func TestClose_Idempotent(t *testing.T) {
	r, _ := openRouter(t)
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
