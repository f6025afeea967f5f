package textio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTxtRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "note.txt")
	if err := WriteTxt(path, "hello\n", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadTxt(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != "hello\n" {
		t.Fatalf("unexpected contents %q", got)
	}

	if err := WriteTxt(path, "again", false); err == nil {
		t.Fatalf("expected overwrite guard error")
	}
}

func TestCSVRoundTripAndRecords(t *testing.T) {
	t.Parallel()

	table := Table{
		Header: []string{"text_to_segment", "speaker"},
		Rows: [][]string{
			{"Hello there. How are you?", "alice"},
			{"Fine, thanks.", "bob"},
		},
	}
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := WriteCSV(path, table, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(table, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	recs := got.Records()
	if recs[1]["speaker"] != "bob" {
		t.Fatalf("unexpected record %v", recs[1])
	}
}

func TestReadCSV_MissingHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Fatalf("expected error for missing header")
	}
}

func TestSuffixChecks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := ReadTxt(filepath.Join(dir, "x.csv")); err == nil {
		t.Fatalf("expected suffix error")
	}
	if _, err := ReadCSV(filepath.Join(dir, "x.txt")); err == nil {
		t.Fatalf("expected suffix error")
	}
}
