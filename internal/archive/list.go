package archive

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/thoreinstein/zonebak/internal/errors"
)

// Info describes one archive present in the output directory.
type Info struct {
	// Path is the full path to the archive file.
	Path string

	// Name is the base file name.
	Name string

	// Timestamp is the creation time embedded in the file name.
	Timestamp time.Time

	// Size is the archive size in bytes.
	Size int64
}

// List returns the archives in dir matching the naming convention for
// prefix, ordered by embedded timestamp ascending. Files that carry the
// prefix but do not parse as archive names (including the latest symlink)
// are ignored.
func List(dir, prefix string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading output directory %s", dir)
	}

	var infos []Info
	for _, e := range entries {
		ts, ok := ParseTimestamp(e.Name(), prefix)
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			// Deleted between ReadDir and Info; treat as absent.
			continue
		}
		infos = append(infos, Info{
			Path:      filepath.Join(dir, e.Name()),
			Name:      e.Name(),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	slices.SortFunc(infos, func(a, b Info) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	return infos, nil
}

// Latest returns the newest archive in dir for prefix.
// Returns an error marked with errors.ErrNoArchives when none exist.
func Latest(dir, prefix string) (*Info, error) {
	infos, err := List(dir, prefix)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, errors.Mark(errors.Newf("no %s archives in %s", prefix, dir), errors.ErrNoArchives)
	}
	return &infos[len(infos)-1], nil
}
