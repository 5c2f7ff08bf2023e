package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/zonebak/internal/logging"
	"github.com/thoreinstein/zonebak/internal/retention"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", 0,
		"number of archives to retain (default: number_of_backups from the config)")
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune [config-file]",
	Short: "Remove old archives without running a backup",
	Long: `Apply the retention policy to the output directory without capturing a
new backup: delete the oldest archives beyond the retention count and
refresh the latest symlink.

A normal backup run already rotates; this command exists for shrinking
the history after lowering number_of_backups.`,
	Example: `  # Apply the configured retention count
  zonebak prune /etc/zonebak.toml

  # Shrink the history to the 3 most recent archives
  zonebak prune /etc/zonebak.toml --keep 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	keep := cfg.NumberOfBackups
	if pruneKeep > 0 {
		keep = pruneKeep
	}

	mgr := retention.NewManager(retention.WithLogger(logging.FromContext(cmd.Context())))
	res, err := mgr.Rotate(cfg.OutDir, cfg.Prefix, keep)
	if err != nil {
		return classify(err)
	}

	w := cmd.OutOrStdout()
	if len(res.Pruned) == 0 && len(res.Failed) == 0 {
		fmt.Fprintln(w, "No archives to prune")
		return nil
	}
	for _, p := range res.Pruned {
		fmt.Fprintf(w, "%s✓ pruned %s%s\n", colorGreen, p, colorReset)
	}
	for _, p := range res.Failed {
		fmt.Fprintf(w, "%scould not prune %s%s\n", colorYellow, p, colorReset)
	}
	return nil
}
