package archive

import (
	"archive/tar"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/snapshot"
)

// Bounds for the zstd compression level.
const (
	MinCompressionLevel = 1
	MaxCompressionLevel = 21
)

// entryMTime is the fixed modification time stamped on every archive entry,
// so archives are byte-reproducible for identical content.
var entryMTime = time.Unix(0, 0).UTC()

// Build serializes the snapshot into a compressed archive in destDir and
// returns the final path.
//
// The archive is written to a temporary file in destDir and moved into
// place with a rename, so a crash mid-build never leaves a partial file at
// the final name. On any error the temporary file is removed and nothing
// new is visible in destDir.
func Build(snap snapshot.Snapshot, destDir, prefix string, ts time.Time, level int) (string, error) {
	if level < MinCompressionLevel || level > MaxCompressionLevel {
		return "", errors.Mark(
			errors.Newf("compression level %d outside [%d, %d]", level, MinCompressionLevel, MaxCompressionLevel),
			errors.ErrInvalidConfig)
	}

	tmp, err := os.CreateTemp(destDir, ".zonebak-build-*.tmp")
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating temp archive"), errors.ErrBuild)
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "creating zstd encoder"), errors.ErrBuild)
	}

	tw := tar.NewWriter(enc)
	for _, r := range snap {
		hdr := &tar.Header{
			Name:    r.Name + ".zone",
			Mode:    0644,
			Size:    int64(len(r.Body)),
			ModTime: entryMTime,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return "", errors.Mark(errors.Wrapf(err, "writing header for zone %s", r.Name), errors.ErrBuild)
		}
		if _, err := tw.Write(r.Body); err != nil {
			return "", errors.Mark(errors.Wrapf(err, "writing body for zone %s", r.Name), errors.ErrBuild)
		}
	}
	if err := tw.Close(); err != nil {
		return "", errors.Mark(errors.Wrap(err, "finalizing tar stream"), errors.ErrBuild)
	}
	if err := enc.Close(); err != nil {
		return "", errors.Mark(errors.Wrap(err, "finalizing zstd stream"), errors.ErrBuild)
	}
	if err := tmp.Close(); err != nil {
		return "", errors.Mark(errors.Wrap(err, "closing temp archive"), errors.ErrBuild)
	}

	final := filepath.Join(destDir, Filename(prefix, ts))
	if err := os.Rename(tmpName, final); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "committing archive to %s", final), errors.ErrBuild)
	}
	committed = true

	return final, nil
}
