package featpack

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteRead_Plain(t *testing.T) {
	t.Parallel()

	entries := map[string][]byte{
		"000000000000000.json": []byte(`{"index":0}`),
		"000000000000001.json": []byte(`{"index":1}`),
	}
	path := filepath.Join(t.TempDir(), "features.tar")
	if err := Write(path, entries, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(entries, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteRead_Gzip(t *testing.T) {
	t.Parallel()

	entries := map[string][]byte{"a.json": []byte("{}")}
	path := filepath.Join(t.TempDir(), "features.tar.gz")
	if err := Write(path, entries, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got["a.json"]) != "{}" {
		t.Fatalf("unexpected contents %q", got["a.json"])
	}
}

func TestWrite_EntriesLiveUnderStemDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "features.tar")
	if err := Write(path, map[string][]byte{"x.json": []byte("1")}, false); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	tr := tar.NewReader(f)
	hdr, err := tr.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if hdr.Name != "features/x.json" {
		t.Fatalf("expected entry under stem dir, got %q", hdr.Name)
	}
	if _, err := io.ReadAll(tr); err != nil {
		t.Fatalf("read entry: %v", err)
	}
}

func TestWrite_RejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	if err := Write(filepath.Join(t.TempDir(), "features.zip"), nil, false); err == nil {
		t.Fatalf("expected extension error")
	}
}

func TestWrite_OverwriteGuard(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "features.tar")
	if err := Write(path, nil, false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := Write(path, nil, false); err == nil {
		t.Fatalf("expected error without overwrite")
	}
	if err := Write(path, map[string][]byte{"a": []byte("b")}, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}
