package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the task store for this project",
		Long: `Initialize the task store for this project.

This command creates the .cursor-kanban/ directory with an empty tasks.json.
Inside a git repository the repository root is the project root; otherwise
the current directory (or --project-dir) is.

Running init again leaves an existing store untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitProjectUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitProjectInput{
				StoreDir: c.Config.StoreDir,
			})
			if err != nil {
				return err
			}

			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Already initialized in %s\n", out.StoreDir)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized cursor-kanban in %s\n", out.StoreDir)
			return nil
		},
	}
}
