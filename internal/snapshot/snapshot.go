// Package snapshot defines the in-memory representation of one backup run's
// captured zone configurations and the fingerprint used for change detection.
package snapshot

// Record is one zone's captured configuration. Records are created fresh
// each run and never mutated.
type Record struct {
	// Name is the zone name, used as the archive entry name.
	Name string

	// Body is the raw configuration dump.
	Body []byte
}

// Snapshot is the ordered set of records captured in one run. Order is the
// collection order reported by the zone source.
type Snapshot []Record

// Names returns the zone names in snapshot order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = r.Name
	}
	return names
}
