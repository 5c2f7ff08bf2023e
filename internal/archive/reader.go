package archive

import (
	"archive/tar"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/snapshot"
)

// ReadSnapshot extracts an archive back into a snapshot, preserving entry
// order. Entry names have the ".zone" suffix stripped.
func ReadSnapshot(path string) (snapshot.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing archive %s", path)
	}
	defer dec.Close()

	var snap snapshot.Snapshot
	tr := tar.NewReader(dec)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading archive %s", path)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, errors.Wrapf(err, "reading entry %s in %s", hdr.Name, path)
		}
		snap = append(snap, snapshot.Record{
			Name: strings.TrimSuffix(hdr.Name, ".zone"),
			Body: body,
		})
	}

	return snap, nil
}

// ReadFingerprint recomputes the fingerprint of an archive's contents.
//
// Comparing fingerprints of extracted contents rather than compressed bytes
// keeps change detection stable across zstd versions and compression-level
// changes.
func ReadFingerprint(path string) (snapshot.Fingerprint, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return snapshot.Fingerprint{}, err
	}
	return snapshot.Compute(snap), nil
}
