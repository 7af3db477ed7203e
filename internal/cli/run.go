package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// newStartCommand creates the start command for opening a run session.
func newStartCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a run session and move the task to IN_PROGRESS",
		Long: `Start a run session for a task.

The task moves to IN_PROGRESS and gets a new running session. A task can
have only one running session at a time.

Examples:
  kanban start 1a2b`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out, err := c.StartRunUseCase().Execute(cmd.Context(), usecase.StartRunInput{TaskID: taskID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started session %s for task %s\n", out.SessionID, out.Task.ID)
			return nil
		},
	}
}

// newStopCommand creates the stop command for closing a run session.
func newStopCommand(c *app.Container) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "stop <id>",
		Short: "Stop a run session and move the task to WAITING_APPROVAL",
		Long: `Stop a run session for a task.

Without --session the running session is stopped. The task moves to
WAITING_APPROVAL.

Examples:
  kanban stop 1a2b
  kanban stop 1a2b --session <session-id>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out, err := c.StopRunUseCase().Execute(cmd.Context(), usecase.StopRunInput{
				TaskID:    taskID,
				SessionID: sessionID,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stopped session %s for task %s\n", out.SessionID, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to stop (default: the running session)")

	return cmd
}

// newLogCommand creates the log command for appending to a session log.
func newLogCommand(c *app.Container) *cobra.Command {
	var opts struct {
		SessionID string
		Type      string
	}

	cmd := &cobra.Command{
		Use:   "log <id> <message...>",
		Short: "Append a message to a run session log",
		Long: `Append a message to a run session's log.

Without --session the running session is used, or the latest session when
none is running.

Log types: progress, milestone, warning, error, info (default).

Examples:
  kanban log 1a2b "tests are green" --type milestone`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			logType, err := domain.ParseLogType(opts.Type)
			if err != nil {
				return err
			}

			sessionID := opts.SessionID
			if sessionID == "" {
				got, err := c.GetTaskUseCase().Execute(cmd.Context(), usecase.GetTaskInput{TaskID: taskID})
				if err != nil {
					return err
				}
				session := got.Task.RunningSession()
				if session == nil {
					session = got.Task.LatestSession()
				}
				if session == nil {
					return domain.ErrSessionNotFound
				}
				sessionID = session.SessionID
			}

			out, err := c.AddLogUseCase().Execute(cmd.Context(), usecase.AddLogInput{
				TaskID:    taskID,
				SessionID: sessionID,
				Message:   strings.Join(args[1:], " "),
				Type:      logType,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged [%s] to session %s\n", out.Entry.Type, sessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SessionID, "session", "", "Session to log to")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Log type")

	return cmd
}

// newClaimCommand creates the claim command for peeking the next backlog task.
func newClaimCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Output     string
		Categories []string
		Priorities []string
	}

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Show the next backlog task in queue order",
		Long: `Show the next BACKLOG task in queue order without changing it.

Claiming does not reserve the task; run "kanban start" to take it.

Examples:
  kanban claim
  kanban claim --category api --priority high -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := domain.ParseCategories(opts.Categories)
			if err != nil {
				return err
			}
			priorities, err := domain.ParsePriorities(opts.Priorities)
			if err != nil {
				return err
			}

			out, err := c.ClaimNextTaskUseCase().Execute(cmd.Context(), usecase.ClaimNextTaskInput{
				Categories: categories,
				Priorities: priorities,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.Output == formatJSON {
				return writeJSON(w, out.Task)
			}
			if out.Task == nil {
				_, _ = fmt.Fprintln(w, "No backlog task available")
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s [%s/%s] %s\n", out.Task.ID, out.Task.Priority, out.Task.Category, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&opts.Categories, "category", nil, "Only consider these categories (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Priorities, "priority", nil, "Only consider these priorities (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", formatText, "Output format: text, json")

	return cmd
}
