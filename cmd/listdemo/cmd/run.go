package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/go-drift/listadapter/pkg/tui"
)

func newRunCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Browse the feed in an interactive list",
		Long: `Show the feed in a full-screen terminal list.

Move with the arrow keys, press enter to select a row or to retry a failed
page from the last row, and ? for every key binding.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("run needs a terminal; use dump for headless output")
			}
			m := tui.New(cmd.Context(), s.feed(), tui.Options{
				Title:     s.cfg.Title,
				Label:     label,
				Threshold: s.cfg.Threshold,
				Timeout:   s.cfg.Timeout,
				Logger:    s.log,
			})
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("list exited: %w", err)
			}
			return nil
		},
	}
}
