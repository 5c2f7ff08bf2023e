package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thoreinstein/zonebak/internal/archive"
	"github.com/thoreinstein/zonebak/internal/config"
	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/internal/logging"
	"github.com/thoreinstein/zonebak/internal/zone"
)

// fakeSource serves canned zone configurations.
type fakeSource struct {
	zones    []string
	bodies   map[string]string
	enumErr  error
	queryErr map[string]error
}

func (f *fakeSource) Zones(ctx context.Context) ([]string, error) {
	if f.enumErr != nil {
		return nil, errors.Mark(f.enumErr, zone.ErrEnumeration)
	}
	return f.zones, nil
}

func (f *fakeSource) Config(ctx context.Context, name string) ([]byte, error) {
	if err, ok := f.queryErr[name]; ok {
		return nil, &zone.QueryError{Zone: name, Err: err}
	}
	return []byte(f.bodies[name]), nil
}

func testConfig(t *testing.T, keep int) *config.Config {
	t.Helper()
	return &config.Config{
		OutDir:           t.TempDir(),
		NumberOfBackups:  keep,
		Prefix:           "zcfgbak",
		CompressionLevel: 3,
	}
}

// fixedClock returns a clock that yields the given unix timestamps in order.
func fixedClock(t *testing.T, stamps ...int64) func() time.Time {
	t.Helper()
	i := 0
	return func() time.Time {
		if i >= len(stamps) {
			t.Fatal("clock exhausted")
		}
		ts := time.Unix(stamps[i], 0)
		i++
		return ts
	}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	infos, err := archive.List(dir, "zcfgbak")
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(infos))
	for i, in := range infos {
		names[i] = in.Name
	}
	return names
}

func TestRun_FirstBackup(t *testing.T) {
	cfg := testConfig(t, 3)
	src := &fakeSource{
		zones:  []string{"dns", "irc"},
		bodies: map[string]string{"dns": "soa 1", "irc": "soa 2"},
	}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(fixedClock(t, 1000)))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !res.Written || res.State != StateDone {
		t.Errorf("result = %+v, want written/done", res)
	}
	if filepath.Base(res.ArchivePath) != "zcfgbak_1000.zones.tar.zst" {
		t.Errorf("ArchivePath = %s", res.ArchivePath)
	}
	if len(res.Zones) != 2 {
		t.Errorf("Zones = %v", res.Zones)
	}

	// Round trip: archive contains exactly the captured configs
	snap, err := archive.ReadSnapshot(res.ArchivePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 2 || snap[0].Name != "dns" || string(snap[1].Body) != "soa 2" {
		t.Errorf("archive contents = %+v", snap)
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t, 3)
	src := &fakeSource{
		zones:  []string{"dns", "irc"},
		bodies: map[string]string{"dns": "soa 1", "irc": "soa 2"},
	}
	clock := fixedClock(t, 1000)

	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(clock))
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	linkBefore, err := os.Readlink(filepath.Join(cfg.OutDir, "zcfgbak_latest"))
	if err != nil {
		t.Fatal(err)
	}

	// Second run, unchanged snapshot. The clock would fail the test if the
	// runner tried to name a new archive.
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Written || res.State != StateSkipping {
		t.Errorf("second run should skip, got %+v", res)
	}

	if got := listNames(t, cfg.OutDir); len(got) != 1 {
		t.Errorf("archive set changed: %v", got)
	}
	linkAfter, err := os.Readlink(filepath.Join(cfg.OutDir, "zcfgbak_latest"))
	if err != nil {
		t.Fatal(err)
	}
	if linkBefore != linkAfter {
		t.Error("pointer changed on a skipped run")
	}
}

func TestRun_ChangeSensitivity(t *testing.T) {
	cfg := testConfig(t, 3)
	src := &fakeSource{
		zones:  []string{"dns", "irc"},
		bodies: map[string]string{"dns": "soa 1", "irc": "soa 2"},
	}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(fixedClock(t, 1000, 2000)))

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// One byte changes in one zone body
	src.bodies["irc"] = "soa 3"

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Written {
		t.Error("changed body must produce a new archive")
	}
	if got := listNames(t, cfg.OutDir); len(got) != 2 {
		t.Errorf("archives = %v, want 2", got)
	}
}

// The concrete scenario from the backup contract: two runs with identical
// content then a changed zone, prefix zcfgbak, retention 2.
func TestRun_Scenario(t *testing.T) {
	cfg := testConfig(t, 2)
	src := &fakeSource{
		zones:  []string{"dns", "irc"},
		bodies: map[string]string{"dns": "soa 1", "irc": "soa 2"},
	}
	clock := fixedClock(t, 1000, 3000)
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(clock))

	// Run 1 at 1000: writes
	res1, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res1.Written || filepath.Base(res1.ArchivePath) != "zcfgbak_1000.zones.tar.zst" {
		t.Fatalf("run 1: %+v", res1)
	}

	// Run 2, same snapshot: skips, pointer unchanged
	res2, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res2.Written {
		t.Fatal("run 2 should not write")
	}

	// Run 3 at 3000 with changed irc body: writes, still 2 archives
	src.bodies["irc"] = "soa 3"
	res3, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res3.Written {
		t.Fatal("run 3 should write")
	}

	names := listNames(t, cfg.OutDir)
	if len(names) != 2 || names[0] != "zcfgbak_1000.zones.tar.zst" || names[1] != "zcfgbak_3000.zones.tar.zst" {
		t.Errorf("archives = %v", names)
	}

	link := filepath.Join(cfg.OutDir, "zcfgbak_latest")
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		t.Fatal(err)
	}
	want, err := filepath.EvalSymlinks(res3.ArchivePath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != want {
		t.Errorf("pointer resolves to %s, want %s", resolved, want)
	}
}

func TestRun_RetentionBound(t *testing.T) {
	cfg := testConfig(t, 2)
	src := &fakeSource{
		zones:  []string{"dns"},
		bodies: map[string]string{"dns": "rev 0"},
	}
	clock := fixedClock(t, 1000, 2000, 3000, 4000, 5000)
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(clock))

	for i := 1; i <= 5; i++ {
		src.bodies["dns"] = "rev " + string(rune('0'+i))
		if _, err := r.Run(context.Background()); err != nil {
			t.Fatal(err)
		}
	}

	names := listNames(t, cfg.OutDir)
	if len(names) != 2 {
		t.Fatalf("archives = %v, want the 2 most recent", names)
	}
	if names[0] != "zcfgbak_4000.zones.tar.zst" || names[1] != "zcfgbak_5000.zones.tar.zst" {
		t.Errorf("survivors = %v", names)
	}
}

func TestRun_EnumerationFailureAborts(t *testing.T) {
	cfg := testConfig(t, 3)
	src := &fakeSource{enumErr: errors.New("zoneadm exploded")}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)))

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCollection) {
		t.Errorf("error should be marked ErrCollection: %v", err)
	}

	entries, err := os.ReadDir(cfg.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("aborted run left files: %v", entries)
	}
}

func TestRun_QueryFailureAbortsByDefault(t *testing.T) {
	cfg := testConfig(t, 3)
	src := &fakeSource{
		zones:    []string{"dns", "irc"},
		bodies:   map[string]string{"dns": "soa 1"},
		queryErr: map[string]error{"irc": errors.New("zone is mid-teardown")},
	}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)))

	_, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("a partial snapshot must not be backed up by default")
	}
	if !errors.Is(err, errors.ErrCollection) {
		t.Errorf("error should be marked ErrCollection: %v", err)
	}

	entries, err := os.ReadDir(cfg.OutDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("aborted run left files: %v", entries)
	}
}

func TestRun_QueryFailureSkippedWhenConfigured(t *testing.T) {
	cfg := testConfig(t, 3)
	cfg.SkipUnavailableZones = true
	src := &fakeSource{
		zones:    []string{"dns", "irc"},
		bodies:   map[string]string{"dns": "soa 1"},
		queryErr: map[string]error{"irc": errors.New("zone is mid-teardown")},
	}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(fixedClock(t, 1000)))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Written {
		t.Fatal("degraded run should still write")
	}
	if len(res.Zones) != 1 || res.Zones[0] != "dns" {
		t.Errorf("Zones = %v, want only dns", res.Zones)
	}

	snap, err := archive.ReadSnapshot(res.ArchivePath)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap) != 1 || snap[0].Name != "dns" {
		t.Errorf("archive contents = %+v", snap)
	}
}

func TestRun_OrderChangeWritesNewArchive(t *testing.T) {
	cfg := testConfig(t, 5)
	src := &fakeSource{
		zones:  []string{"dns", "irc"},
		bodies: map[string]string{"dns": "soa 1", "irc": "soa 2"},
	}
	r := NewRunner(cfg, src, WithLogger(logging.ForTest(t)), WithClock(fixedClock(t, 1000, 2000)))

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.zones = []string{"irc", "dns"}
	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Written {
		t.Error("enumeration order is part of the fingerprint contract")
	}
}
