package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// newMoveCommand creates the move command for changing a task's status.
func newMoveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Reason string
		By     string
	}

	cmd := &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another column",
		Long: `Move a task to another status column.

Manual moves are never rejected, including moves back to BACKLOG or
moves to the status the task already has; each one is recorded in the
task's history.

Status values: BACKLOG, IN_PROGRESS, WAITING_APPROVAL, FINISHED
(case-insensitive; hyphens and spaces are accepted).

Examples:
  kanban move 1a2b in_progress
  kanban move 1a2b backlog --reason "needs design"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			status, err := domain.ParseStatus(args[1])
			if err != nil {
				return err
			}
			by, err := domain.ParseActor(opts.By)
			if err != nil {
				return err
			}

			out, err := c.UpdateStatusUseCase().Execute(cmd.Context(), usecase.UpdateStatusInput{
				TaskID: taskID,
				Status: status,
				By:     by,
				Reason: opts.Reason,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", out.Task.ID, out.Task.Status.Display())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Reason, "reason", "", "Reason recorded in history")
	cmd.Flags().StringVar(&opts.By, "by", string(domain.ActorUser), "Actor recorded in history: user, agent, system")

	return cmd
}

// newFinishCommand creates the finish command for approving a task.
func newFinishCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "finish <id>",
		Short: "Approve a task and move it to FINISHED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out, err := c.UpdateStatusUseCase().Execute(cmd.Context(), usecase.UpdateStatusInput{
				TaskID: taskID,
				Status: domain.StatusFinished,
				By:     domain.ActorUser,
				Reason: "approved",
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Finished task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}
}
