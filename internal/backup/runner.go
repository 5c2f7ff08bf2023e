package backup

import (
	"context"
	"log/slog"
	"time"

	"github.com/thoreinstein/zonebak/internal/archive"
	"github.com/thoreinstein/zonebak/internal/config"
	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/logging"
	"github.com/thoreinstein/zonebak/internal/retention"
	"github.com/thoreinstein/zonebak/internal/snapshot"
	"github.com/thoreinstein/zonebak/internal/zone"
)

// State identifies a stage of the backup run.
type State string

// Run states, in execution order. Failed is terminal and reachable from any
// state.
const (
	StateCollecting     State = "collecting"
	StateFingerprinting State = "fingerprinting"
	StateSkipping       State = "skipping"
	StateBuilding       State = "building"
	StateRotating       State = "rotating"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Runner sequences one backup pass: collect, fingerprint, compare to the
// previous archive, then either skip or build and rotate.
type Runner struct {
	cfg *config.Config
	src zone.Source
	ret *retention.Manager
	log *slog.Logger
	now func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the run logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) {
		r.log = log
	}
}

// WithClock overrides the time source used for archive naming.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a Runner for the given configuration and zone source.
func NewRunner(cfg *config.Config, src zone.Source, opts ...Option) *Runner {
	r := &Runner{
		cfg: cfg,
		src: src,
		log: logging.NewDiscard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ret = retention.NewManager(retention.WithLogger(r.log))
	return r
}

// Result describes a completed run.
type Result struct {
	// State is the terminal state, StateDone or StateSkipping.
	State State

	// Written reports whether a new archive was committed.
	Written bool

	// ArchivePath is the path of the newly written archive, empty on skip.
	ArchivePath string

	// Zones lists the zone names captured this run, in collection order.
	Zones []string

	// Fingerprint is the digest of the captured snapshot.
	Fingerprint snapshot.Fingerprint

	// Pruned lists archives deleted by rotation.
	Pruned []string

	// PruneFailed lists archives whose deletion failed and was skipped.
	PruneFailed []string
}

// Run executes one backup pass.
//
// Collection, configuration, and build failures abort the run with the
// output directory unchanged. Per-file pruning failures and a failed
// latest-pointer update are logged and do not fail the run once the new
// archive is safely in place.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	snap, err := r.collect(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Zones: snap.Names()}

	r.log.Debug("run state", "state", StateFingerprinting)
	res.Fingerprint = snapshot.Compute(snap)

	unchanged, err := r.matchesLatest(res.Fingerprint)
	if err != nil {
		return nil, err
	}
	if unchanged {
		r.log.Info("no changes in zone configs detected, skipping write")
		res.State = StateSkipping
		return res, nil
	}

	r.log.Debug("run state", "state", StateBuilding)
	path, err := archive.Build(snap, r.cfg.OutDir, r.cfg.Prefix, r.now(), r.cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}
	r.log.Info("zone backup written", "path", path, "zones", len(snap))
	res.Written = true
	res.ArchivePath = path

	r.log.Debug("run state", "state", StateRotating)
	rot, err := r.ret.Rotate(r.cfg.OutDir, r.cfg.Prefix, r.cfg.NumberOfBackups)
	if err != nil {
		// The new archive is already committed; surface the failure but
		// keep the result so callers can report the written path.
		return res, errors.Wrap(err, "rotating archives")
	}
	res.Pruned = rot.Pruned
	res.PruneFailed = rot.Failed
	if rot.PointerErr != nil {
		r.log.Warn("latest pointer not updated", "error", rot.PointerErr)
	}

	res.State = StateDone
	return res, nil
}

// collect gathers the current snapshot from the zone source.
//
// An enumeration failure always aborts. A single zone's query failure
// aborts too unless skip_unavailable_zones is set, in which case the zone
// is logged and omitted, matching the degraded mode where a zone is deleted
// between enumeration and query.
func (r *Runner) collect(ctx context.Context) (snapshot.Snapshot, error) {
	r.log.Debug("run state", "state", StateCollecting)

	zones, err := r.src.Zones(ctx)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "enumerating zones"), errors.ErrCollection)
	}

	snap := make(snapshot.Snapshot, 0, len(zones))
	for _, name := range zones {
		body, err := r.src.Config(ctx, name)
		if err != nil {
			var qe *zone.QueryError
			if r.cfg.SkipUnavailableZones && errors.As(err, &qe) {
				r.log.Warn("skipping unavailable zone", "zone", name, "error", err)
				continue
			}
			return nil, errors.Mark(err, errors.ErrCollection)
		}
		r.log.Info("captured zone config", "zone", name, "bytes", len(body))
		snap = append(snap, snapshot.Record{Name: name, Body: body})
	}

	return snap, nil
}

// matchesLatest reports whether fp equals the fingerprint of the newest
// existing archive's contents. A missing history means no match; an
// unreadable latest archive is logged and treated as changed, so a corrupt
// newest archive gets superseded rather than blocking backups.
func (r *Runner) matchesLatest(fp snapshot.Fingerprint) (bool, error) {
	latest, err := archive.Latest(r.cfg.OutDir, r.cfg.Prefix)
	if err != nil {
		if errors.Is(err, errors.ErrNoArchives) {
			return false, nil
		}
		return false, errors.Mark(err, errors.ErrRotation)
	}

	prev, err := archive.ReadFingerprint(latest.Path)
	if err != nil {
		r.log.Warn("could not fingerprint latest archive, writing a fresh backup",
			"path", latest.Path, "error", err)
		return false, nil
	}

	return prev == fp, nil
}
