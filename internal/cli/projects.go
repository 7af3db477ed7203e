package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// newProjectsCommand creates the projects command for managing known projects.
func newProjectsCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"ws"},
		Short:   "Manage the list of known projects",
		Long: `Manage the list of known projects kept in ~/.config/cursor-kanban/projects.toml.

Projects opened by the tool or UI servers are recorded automatically.`,
	}

	cmd.AddCommand(newProjectsListCommand(c))
	cmd.AddCommand(newProjectsAddCommand(c))
	cmd.AddCommand(newProjectsRemoveCommand(c))

	return cmd
}

// newProjectsListCommand creates the projects list subcommand.
func newProjectsListCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List known projects, most recently opened first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := c.ListProjectsUseCase()
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(out.Projects) == 0 {
				_, _ = fmt.Fprintln(w, "No projects registered")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNAME\tLAST OPENED\tPATH")
			for _, p := range out.Projects {
				opened := "-"
				if !p.LastOpened.IsZero() {
					opened = p.LastOpened.Local().Format(time.DateTime)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID(), p.DisplayName(), opened, p.Path)
			}
			return tw.Flush()
		},
	}
}

// newProjectsAddCommand creates the projects add subcommand.
func newProjectsAddCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Register a project root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.AddProjectUseCase()
			if err != nil {
				return err
			}
			out, err := uc.Execute(cmd.Context(), usecase.AddProjectInput{Path: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added project %s (%s)\n", out.Project.DisplayName(), out.Project.ID())
			return nil
		},
	}
}

// newProjectsRemoveCommand creates the projects rm subcommand.
func newProjectsRemoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <path|id>",
		Aliases: []string{"remove"},
		Short:   "Forget a project; its task data is left on disk",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := c.RemoveProjectUseCase()
			if err != nil {
				return err
			}
			if err := uc.Execute(cmd.Context(), usecase.RemoveProjectInput{PathOrID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", args[0])
			return nil
		},
	}
}
