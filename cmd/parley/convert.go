package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/pkg/adapters/file"
	"github.com/aretw0/parley/pkg/codec"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <from> [to]",
	Short: "Convert a dialogue file between JSON and YAML",
	Long: `Reads a dialogue and writes it to another file. Each file's extension selects its format.
Without a destination, the source is written next to itself in the other format.`,
	Args: cobra.RangeArgs(1, 2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// No config needed: both paths are given.
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := file.New(".")
		g, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		dst := convertTarget(args[0])
		if len(args) == 2 {
			dst = args[1]
		}
		if err := store.Save(cmd.Context(), dst, g); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d nodes to %s\n", g.Len(), store.Path(dst))
		return nil
	},
}

// convertTarget swaps the extension of src for the other format's.
func convertTarget(src string) string {
	to := codec.FormatYAML
	if codec.FormatFromPath(src) == codec.FormatYAML {
		to = codec.FormatJSON
	}
	return strings.TrimSuffix(src, filepath.Ext(src)) + to.Extension()
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
