// Package featpack archives per-frame feature records as a tar file.
//
// Each record becomes one entry under a directory named after the
// archive stem, so extracting "features.tar.gz" yields
// "features/000000000000001.json" and so on. Compression follows the
// extension: ".tar" is plain, ".tar.gz" and ".tgz" are gzipped.
package featpack

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"sigkit/internal/domain/paths"
)

// Write archives entries (name -> contents) at archivePath.
func Write(archivePath string, entries map[string][]byte, overwrite bool) error {
	compressed, err := isGzip(archivePath)
	if err != nil {
		return err
	}
	if err := paths.EnsureWritable(archivePath, overwrite); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compressed {
		gz = gzip.NewWriter(f)
		w = gz
	}
	tw := tar.NewWriter(w)

	dir := stem(archivePath)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		hdr := &tar.Header{
			Name: path.Join(dir, name),
			Mode: 0o644,
			Size: int64(len(entries[name])),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("featpack: write header %s: %w", name, err)
		}
		if _, err := tw.Write(entries[name]); err != nil {
			return fmt.Errorf("featpack: write entry %s: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}

// Read extracts all regular files from the archive, keyed by basename.
func Read(archivePath string) (map[string][]byte, error) {
	compressed, err := isGzip(archivePath)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if compressed {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("featpack: open gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	out := map[string][]byte{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("featpack: read archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		b, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("featpack: read entry %s: %w", hdr.Name, err)
		}
		out[path.Base(hdr.Name)] = b
	}
	return out, nil
}

func isGzip(archivePath string) (bool, error) {
	name := filepath.Base(archivePath)
	switch {
	case strings.HasSuffix(name, ".tar"):
		return false, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return true, nil
	default:
		return false, fmt.Errorf("featpack: %s: expected a .tar, .tar.gz or .tgz archive", archivePath)
	}
}

func stem(archivePath string) string {
	name := filepath.Base(archivePath)
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
