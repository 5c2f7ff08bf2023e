package zone

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
)

// Source provides the configured zones on the current host.
//
// Implementations must return zone names in a stable, deterministic order
// per call. Change detection compares snapshots across runs, so an unstable
// order would make every run look like a configuration change.
type Source interface {
	// Zones returns the names of all configured zones.
	Zones(ctx context.Context) ([]string, error)

	// Config returns the textual configuration dump for one zone.
	Config(ctx context.Context, name string) ([]byte, error)
}

// ErrEnumeration indicates listing the configured zones failed.
// Errors returned by Source.Zones are marked with this sentinel.
var ErrEnumeration = errors.New("zone enumeration failed")

// QueryError indicates the configuration query for a single zone failed.
// It distinguishes a per-zone failure from an enumeration failure so the
// caller can choose to omit the zone instead of aborting the run.
type QueryError struct {
	// Zone is the name of the zone whose query failed.
	Zone string

	// Err is the underlying failure.
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("querying zone %s: %v", e.Zone, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
