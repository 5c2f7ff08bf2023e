package commands

import (
	"fmt"
	"io"

	"github.com/thoreinstein/zonebak/internal/backup"
	"github.com/thoreinstein/zonebak/internal/config"
	"github.com/thoreinstein/zonebak/internal/errors"
)

// Color constants for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// loadConfig loads the config file named by the optional positional
// argument, falling back to the default XDG location.
func loadConfig(args []string) (*config.Config, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return cfg, nil
}

// classify maps a pipeline error to an ExitError with the right exit code.
// Configuration problems are user errors; everything else is a system error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if errors.Is(err, errors.ErrInvalidConfig) {
		return errors.NewConfigError(err)
	}
	return errors.NewExitError(err, errors.ExitSystem)
}

// printRunResult writes the human-readable summary of a backup pass.
func printRunResult(w io.Writer, res *backup.Result) {
	if !res.Written {
		fmt.Fprintf(w, "%sno changes in %d zone(s), nothing written%s\n",
			colorGray, len(res.Zones), colorReset)
		return
	}

	fmt.Fprintf(w, "%s✓ wrote %s (%d zones)%s\n",
		colorGreen, res.ArchivePath, len(res.Zones), colorReset)

	for _, p := range res.Pruned {
		fmt.Fprintf(w, "  pruned %s\n", p)
	}
	for _, p := range res.PruneFailed {
		fmt.Fprintf(w, "%s  could not prune %s%s\n", colorYellow, p, colorReset)
	}
}
