package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/zonebak/internal/archive"
	"github.com/thoreinstein/zonebak/internal/errors"
)

var listFormat string

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "text",
		"output format: text, json, yaml")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [config-file]",
	Short: "List archives in the output directory",
	Long: `List the backup archives currently retained in the configured output
directory, oldest first, with the embedded creation timestamp and size.`,
	Example: `  # Tabular listing
  zonebak list /etc/zonebak.toml

  # Machine-readable listing
  zonebak list /etc/zonebak.toml --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

// listEntry is one archive in machine-readable list output.
type listEntry struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	SizeBytes int64     `json:"size_bytes" yaml:"size_bytes"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	infos, err := archive.List(cfg.OutDir, cfg.Prefix)
	if err != nil {
		return classify(err)
	}

	w := cmd.OutOrStdout()

	switch listFormat {
	case "text":
		return outputListTabular(w, infos)
	case "json", "yaml":
		return outputListMarshaled(w, infos, listFormat)
	default:
		return errors.NewUserError(
			errors.Newf("unknown format %q", listFormat),
			"Valid formats: text, json, yaml")
	}
}

func outputListTabular(w io.Writer, infos []archive.Info) error {
	if len(infos) == 0 {
		fmt.Fprintln(w, "No archives found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sCREATED%s\t%sSIZE%s\t%sNAME%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, in := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s%s%s\n",
			in.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			in.Size,
			colorGreen, in.Name, colorReset)
	}
	return tw.Flush()
}

func outputListMarshaled(w io.Writer, infos []archive.Info, format string) error {
	entries := make([]listEntry, len(infos))
	for i, in := range infos {
		entries[i] = listEntry{
			Name:      in.Name,
			Path:      in.Path,
			CreatedAt: in.Timestamp.UTC(),
			SizeBytes: in.Size,
		}
	}

	if format == "yaml" {
		data, err := yaml.Marshal(entries)
		if err != nil {
			return errors.Wrap(err, "encoding output")
		}
		_, err = w.Write(data)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(entries), "encoding output")
}
