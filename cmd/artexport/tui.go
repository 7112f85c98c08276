package main

import (
	"io"

	"artexport/config"
	"artexport/demo/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newTUICmd(cfg *config.Config) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "tui [page-or-dir...]",
		Short: "Interactive export button",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Keep log lines from tearing the terminal UI
			logrus.SetOutput(io.Discard)

			ctrl, cleanup, err := buildController(cmd.Context(), cfg, args, flags, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup.Close()

			program := tea.NewProgram(tui.NewModel(cmd.Context(), ctrl), tea.WithContext(cmd.Context()))
			_, err = program.Run()
			return err
		},
	}

	addExportFlags(cmd, &flags)
	return cmd
}
