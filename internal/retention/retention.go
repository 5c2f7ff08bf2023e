// Package retention bounds the archive history in the output directory and
// maintains the latest-archive symlink.
package retention

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/zonebak/internal/archive"
	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/logging"
)

// Manager prunes old archives and refreshes the latest pointer.
type Manager struct {
	log *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report pruned and skipped files.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates a retention Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		log: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Result describes the outcome of one rotation pass.
type Result struct {
	// Pruned lists the archive paths deleted, oldest first.
	Pruned []string

	// Failed lists archive paths whose deletion failed. These are reported
	// and skipped; a stuck old file does not invalidate the newest backup.
	Failed []string

	// Latest is the archive path the latest pointer references after the
	// pass, or empty when no archives exist.
	Latest string

	// PointerErr is set when refreshing the latest symlink failed. The
	// rotation itself is still considered successful, but downstream
	// consumers of the pointer should be warned.
	PointerErr error
}

// Rotate lists the archives in dir for prefix, deletes the oldest until at
// most keep remain, and points the latest symlink at the newest survivor.
//
// Running Rotate twice in a row with no new archive added is a no-op.
// Individual deletion failures are logged and skipped. Listing failures are
// fatal and returned marked with errors.ErrRotation.
func (m *Manager) Rotate(dir, prefix string, keep int) (*Result, error) {
	if keep < 1 {
		return nil, errors.Mark(errors.Newf("retention count %d must be >= 1", keep), errors.ErrInvalidConfig)
	}

	infos, err := archive.List(dir, prefix)
	if err != nil {
		return nil, errors.Mark(err, errors.ErrRotation)
	}

	res := &Result{}

	if excess := len(infos) - keep; excess > 0 {
		for _, old := range infos[:excess] {
			if err := os.Remove(old.Path); err != nil {
				m.log.Warn("could not prune archive", "path", old.Path, "error", err)
				res.Failed = append(res.Failed, old.Path)
				continue
			}
			m.log.Info("pruned archive", "path", old.Path)
			res.Pruned = append(res.Pruned, old.Path)
		}
		infos = infos[excess:]
	}

	if len(infos) == 0 {
		return res, nil
	}

	newest := infos[len(infos)-1]
	res.Latest = newest.Path
	res.PointerErr = m.updateLatest(dir, prefix, newest.Name)

	return res, nil
}

// updateLatest points the {prefix}_latest symlink at target, a file name
// inside dir. The link is relative so the output directory can be moved or
// mounted elsewhere without dangling.
func (m *Manager) updateLatest(dir, prefix, target string) error {
	link := filepath.Join(dir, archive.LatestName(prefix))

	if current, err := os.Readlink(link); err == nil && current == target {
		return nil
	}

	// Remove-then-create keeps the window where no pointer exists as small
	// as a symlink refresh can be without renameat tricks.
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return errors.Mark(errors.Wrapf(err, "removing stale pointer %s", link), errors.ErrRotation)
	}
	if err := os.Symlink(target, link); err != nil {
		return errors.Mark(errors.Wrapf(err, "pointing %s at %s", link, target), errors.ErrRotation)
	}

	m.log.Info("updated latest pointer", "link", link, "target", target)
	return nil
}
