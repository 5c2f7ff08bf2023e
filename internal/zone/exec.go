package zone

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Default tool locations on illumos/Solaris hosts.
const (
	DefaultZoneadm = "/usr/sbin/zoneadm"
	DefaultZonecfg = "/usr/sbin/zonecfg"
)

// ExecSource queries zones by shelling out to zoneadm and zonecfg.
// Both commands run with a cleared environment.
type ExecSource struct {
	zoneadm string
	zonecfg string
}

// ExecOption configures an ExecSource.
type ExecOption func(*ExecSource)

// WithZoneadm overrides the zoneadm binary path.
func WithZoneadm(path string) ExecOption {
	return func(s *ExecSource) {
		s.zoneadm = path
	}
}

// WithZonecfg overrides the zonecfg binary path.
func WithZonecfg(path string) ExecOption {
	return func(s *ExecSource) {
		s.zonecfg = path
	}
}

// NewExecSource creates an ExecSource with the given options.
func NewExecSource(opts ...ExecOption) *ExecSource {
	s := &ExecSource{
		zoneadm: DefaultZoneadm,
		zonecfg: DefaultZonecfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Zones lists the configured zones via "zoneadm list -n -c".
// The -n flag excludes the global zone, -c includes zones that are
// configured but not running. Output order is preserved.
func (s *ExecSource) Zones(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, s.zoneadm, "list", "-n", "-c")
	cmd.Env = []string{}

	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Mark(execError(err, s.zoneadm), ErrEnumeration)
	}

	return parseZoneList(out), nil
}

// Config dumps a single zone's configuration via "zonecfg -z <name> info".
func (s *ExecSource) Config(ctx context.Context, name string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.zonecfg, "-z", name, "info")
	cmd.Env = []string{}

	out, err := cmd.Output()
	if err != nil {
		return nil, &QueryError{Zone: name, Err: execError(err, s.zonecfg)}
	}

	if len(out) == 0 {
		return nil, &QueryError{Zone: name, Err: errors.New("empty zonecfg output")}
	}

	return out, nil
}

// parseZoneList splits zoneadm output into zone names, one per line,
// dropping blank lines.
func parseZoneList(out []byte) []string {
	var zones []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		name := strings.TrimSpace(sc.Text())
		if name != "" {
			zones = append(zones, name)
		}
	}
	return zones
}

// execError annotates a command failure, surfacing captured stderr when the
// command ran but exited non-zero.
func execError(err error, tool string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return errors.Wrapf(err, "exec %s: %s", tool, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return errors.Wrapf(err, "exec %s", tool)
}
