package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/mcp"
	"github.com/runoshun/cursor-kanban/internal/uibridge"
)

// newRegistry builds a registry seeded with c. Other projects are opened on
// demand with the same global config directory.
func newRegistry(c *app.Container) (*app.Registry, error) {
	reg := app.NewRegistry(func(root string) (*app.Container, error) {
		if root == c.Config.Root {
			return c, nil
		}
		return app.NewForRoot(root, app.Options{GlobalDir: c.Config.GlobalDir})
	}, c.Projects)

	if _, err := reg.Open(c.Config.Root); err != nil {
		return nil, err
	}
	return reg, nil
}

// newMCPCommand creates the mcp command.
func newMCPCommand(c *app.Container, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the agent tool surface over stdio (MCP)",
		Long: `Serve the Model Context Protocol tool surface on stdin/stdout.

Tools default to this project; every tool accepts an optional "project"
argument (a project ID or root path) to work on another board.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := newRegistry(c)
			if err != nil {
				return err
			}
			defer func() { _ = reg.Close() }()

			srv := mcp.NewServer(reg, app.Session{ProjectID: c.Config.ProjectID}, version)
			return srv.Serve()
		},
	}
}

// newUICommand creates the ui command.
func newUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Serve the board UI bridge over stdio",
		Long: `Serve the board UI bridge: newline-delimited JSON requests on stdin,
responses on stdout.

With [ui] watch enabled, changes made by other processes push a fresh
boardState message.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := newRegistry(c)
			if err != nil {
				return err
			}
			defer func() { _ = reg.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bridge := uibridge.New(reg, app.Session{ProjectID: c.Config.ProjectID})
			return bridge.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
