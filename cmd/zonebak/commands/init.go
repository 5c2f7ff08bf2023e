package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/zonebak/internal/config"
	"github.com/thoreinstein/zonebak/internal/errors"
	"github.com/thoreinstein/zonebak/pkg/fileutil"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [config-file]",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file with documented defaults.

The file is written atomically. Without a path argument the default
location ($XDG_CONFIG_HOME/zonebak/config.toml) is used and parent
directories are created as needed. An existing file is not overwritten
unless --force is given.`,
	Example: `  # Starter config at the default location
  zonebak init

  # Starter config at an explicit path
  zonebak init /etc/zonebak.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return errors.NewUserError(
			errors.Newf("%s already exists", path),
			"Pass --force to overwrite it")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewExitError(errors.Wrap(err, "creating config directory"), errors.ExitSystem)
	}

	if err := fileutil.AtomicWriteTOML(path, config.Default()); err != nil {
		return errors.NewExitError(errors.Wrap(err, "writing config"), errors.ExitSystem)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s✓ wrote %s%s\n", colorGreen, path, colorReset)
	fmt.Fprintln(cmd.OutOrStdout(), "Edit outdir and number_of_backups before the first run.")
	return nil
}
