package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/varunsharma/ostexplorer/internal/remote"
	"github.com/varunsharma/ostexplorer/internal/session"
	"github.com/varunsharma/ostexplorer/internal/tui"
)

var serviceURL string

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Open the interactive terminal UI",
	Long: `Open an interactive terminal UI for exploring an OST archive.

Loading emails:
  u           Upload a local archive to the parse service
  b           Ask the service to parse a path local to it
  l           Load the sample dataset

Filtering:
  f           Open the date filter panel (j/k fields, h/l values)
  1-4         Apply a preset (Last 7/30/90 Days, This Year)
  s           Apply the built date range
  r           Reset the filter

Navigation:
  ↑/k, ↓/j    Move up/down
  Enter       Open an email
  Esc         Go back
  v           Hide or show the list
  q           Quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := serviceURL
		if url == "" {
			url = cfg.Remote.URL
		}

		client, err := remote.New(remote.Config{URL: url, Timeout: cfg.RemoteTimeout()})
		if err != nil {
			return fmt.Errorf("create service client: %w", err)
		}

		sess := session.New(client)
		model := tui.New(sess, client, tui.Options{Version: Version})
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&serviceURL, "url", "", "parse service URL (default from config)")
}
