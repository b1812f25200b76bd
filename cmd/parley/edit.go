package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/presentation/tui"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the dialogue editor",
	Long: `Opens a dialogue on a terminal canvas. Drag node windows with the left
button, resize them from their bottom-right corner and pan with the right
button. The file is created on first save if it does not exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(cmd.Context(), b.Graphs, cfg.Graph, true)
		if err != nil {
			return err
		}

		// The canvas owns the terminal, so logs only go to a file.
		editorLogger := logging.NewNop()
		if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			editorLogger = logging.NewText(f, logging.ParseLevel(cfg.LogLevel))
		}

		model := tui.NewModel(b.Graphs, cfg.Graph, g, tui.WithLogger(editorLogger))
		final, err := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(cmd.Context()),
		).Run()
		if err != nil {
			return fmt.Errorf("editor failed: %w", err)
		}

		if m, ok := final.(tui.Model); ok && m.Modified() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Unsaved changes were discarded.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().String("log-file", "", "Write editor logs to this file")
}
