// Package zone abstracts enumeration and configuration retrieval for the
// zones on the current host.
//
// The [Source] interface is the seam between the backup pipeline and the
// platform tooling: production code uses [ExecSource], which shells out to
// zoneadm and zonecfg, while tests substitute a canned source.
//
// Failures are typed. Enumeration failures are marked with [ErrEnumeration];
// a failure to query one zone is reported as a [*QueryError] carrying the
// zone name, so callers can distinguish "cannot list zones at all" from
// "one zone went away mid-run".
package zone
