package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/validator"
)

var (
	validateJSON   bool
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [dialogue]",
	Short: "Check a dialogue for broken links",
	Long: `Reports a missing start node, duplicate ids, choices and next links
that name missing nodes, unset choice targets and next links shadowed by choices.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(cmd.Context(), b.Graphs, cfg.Graph, false)
		if err != nil {
			return err
		}

		report := validator.Inspect(g, cfg.StartNode)
		out := cmd.OutOrStdout()
		if validateJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			for _, issue := range report.Issues {
				fmt.Fprintln(out, issue)
			}
			fmt.Fprintf(out, "%s: %d nodes, %d errors, %d warnings\n", cfg.Graph, g.Len(), report.Errors(), report.Warnings())
		}

		if err := report.Err(); err != nil {
			return err
		}
		if validateStrict && report.Warnings() > 0 {
			return fmt.Errorf("found %d warnings", report.Warnings())
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the report as JSON")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail on warnings too")
	rootCmd.AddCommand(validateCmd)
}
