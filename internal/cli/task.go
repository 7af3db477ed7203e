package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// Output formats accepted by -o.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title              string
		Description        string
		Category           string
		Priority           string
		Branch             string
		Notes              string
		From               string
		RelatedFiles       []string
		AcceptanceCriteria []string
		DryRun             bool
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task in the BACKLOG column.

Category defaults to CORE and priority to MEDIUM. Without --branch the task
targets whatever branch is current when it runs.

Examples:
  # Create a task
  kanban new --title "Fix login bug" --priority high

  # Create a task that should run on its own branch
  kanban new --title "OAuth2 support" --category api --branch feat/oauth

  # Attach agent context; rendered into the description
  kanban new --title "Refactor store" --file internal/store.go \
    --criteria "tests pass" --notes "keep the public API"

  # Create tasks from a YAML file
  kanban new --from tasks.yaml

  # Preview tasks from a file without creating
  kanban new --from tasks.yaml --dry-run

File format for --from:
  tasks:
    - title: Task 1
      category: UI
      priority: HIGH
      description: |
        Details here.
    - title: Task 2
      branch: feat/task-2
      acceptanceCriteria: [works]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.From != "" {
				return createTasksFromFile(cmd, c, opts.From, opts.DryRun)
			}

			// Require --title when not using --from
			if opts.Title == "" {
				return fmt.Errorf("required flag(s) \"title\" not set")
			}

			input, err := buildCreateInput(opts.Title, opts.Description, opts.Category, opts.Priority, opts.Branch)
			if err != nil {
				return err
			}

			var task *domain.Task
			if len(opts.RelatedFiles) > 0 || len(opts.AcceptanceCriteria) > 0 || opts.Notes != "" {
				out, err := c.CreateTaskFromContextUseCase().Execute(cmd.Context(), usecase.CreateTaskFromContextInput{
					CreateTaskInput:    input,
					RelatedFiles:       opts.RelatedFiles,
					AcceptanceCriteria: opts.AcceptanceCriteria,
					TechnicalNotes:     opts.Notes,
				})
				if err != nil {
					return err
				}
				task = out.Task
			} else {
				out, err := c.CreateTaskUseCase().Execute(cmd.Context(), input)
				if err != nil {
					return err
				}
				task = out.Task
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", task.ID, task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Task title (at least 3 characters)")
	cmd.Flags().StringVarP(&opts.Description, "body", "b", "", "Task description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Category: CORE, UI, API")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority: HIGH, MEDIUM, LOW")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Run on a new branch with this name")
	cmd.Flags().StringArrayVar(&opts.RelatedFiles, "file", nil, "Related file (repeatable)")
	cmd.Flags().StringArrayVar(&opts.AcceptanceCriteria, "criteria", nil, "Acceptance criterion (repeatable)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "Technical notes")
	cmd.Flags().StringVar(&opts.From, "from", "", "Create tasks from a YAML file")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview tasks from --from without creating them")

	return cmd
}

// buildCreateInput parses the flag values shared by new and the tool surfaces.
func buildCreateInput(title, description, category, priority, branch string) (usecase.CreateTaskInput, error) {
	input := usecase.CreateTaskInput{
		Title:       title,
		Description: description,
	}
	if category != "" {
		cat, err := domain.ParseCategory(category)
		if err != nil {
			return input, err
		}
		input.Category = cat
	}
	if priority != "" {
		p, err := domain.ParsePriority(priority)
		if err != nil {
			return input, err
		}
		input.Priority = p
	}
	if branch != "" {
		target := domain.NewBranch(branch)
		input.BranchTarget = &target
	}
	return input, nil
}

func createTasksFromFile(cmd *cobra.Command, c *app.Container, filePath string, dryRun bool) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	uc := c.CreateTasksFromFileUseCase()
	out, err := uc.Execute(cmd.Context(), usecase.CreateTasksFromFileInput{
		Content: string(content),
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if dryRun {
		_, _ = fmt.Fprintln(w, "Dry run - tasks that would be created:")
		_, _ = fmt.Fprintln(w, "")
	}

	for i, task := range out.Tasks {
		if dryRun {
			_, _ = fmt.Fprintf(w, "Task %d:\n", i+1)
		} else {
			_, _ = fmt.Fprintf(w, "Created task %s:\n", task.ID)
		}
		_, _ = fmt.Fprintf(w, "  Title: %s\n", task.Title)
		_, _ = fmt.Fprintf(w, "  Category: %s  Priority: %s\n", task.Category, task.Priority)
		if task.BranchTarget.Type == domain.BranchNew {
			_, _ = fmt.Fprintf(w, "  Branch: %s\n", task.BranchTarget.Name)
		}
		if task.Description != "" {
			// Show first line of description
			lines := strings.Split(task.Description, "\n")
			preview := lines[0]
			if len(preview) > 50 {
				preview = preview[:50] + "..."
			}
			if len(lines) > 1 {
				preview += " ..."
			}
			_, _ = fmt.Fprintf(w, "  Description: %s\n", preview)
		}
		if i < len(out.Tasks)-1 {
			_, _ = fmt.Fprintln(w, "")
		}
	}

	if !dryRun {
		_, _ = fmt.Fprintf(w, "\nCreated %d task(s)\n", len(out.Tasks))
	}
	return nil
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Search     string
		Cursor     string
		Output     string
		Statuses   []string
		Categories []string
		Priorities []string
		Limit      int
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `Display tasks in queue order: priority (HIGH first), then creation time.

Filters combine with AND; values within one filter combine with OR.
--search matches title or description, case-insensitively.

Output is tab-separated with columns:
  ID, STATUS, PRIORITY, CATEGORY, TITLE

When more tasks remain, the cursor for the next page is printed last.

Examples:
  # List everything
  kanban list

  # High-priority UI tasks in the backlog
  kanban list --status backlog --category ui --priority high

  # Page through results
  kanban list --limit 20
  kanban list --limit 20 --cursor <id>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := domain.ParseTaskFilter(opts.Statuses, opts.Categories, opts.Priorities, opts.Search)
			if err != nil {
				return err
			}

			uc := c.ListTasksUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ListTasksInput{
				Filter: filter,
				Cursor: opts.Cursor,
				Limit:  opts.Limit,
			})
			if err != nil {
				return err
			}

			if opts.Output == formatJSON {
				return writeJSON(cmd.OutOrStdout(), domain.ListResult{Items: out.Items, NextCursor: out.NextCursor})
			}
			printTaskList(cmd.OutOrStdout(), out.Items)
			if out.NextCursor != nil {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nNext page: --cursor %s\n", *out.NextCursor)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Statuses, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Categories, "category", nil, "Filter by category (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Priorities, "priority", nil, "Filter by priority (repeatable)")
	cmd.Flags().StringVarP(&opts.Search, "search", "q", "", "Search title and description")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "Continue after this task ID")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Page size (default from config)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", formatText, "Output format: text, json")

	return cmd
}

// printTaskList prints summaries in TSV format.
func printTaskList(w io.Writer, items []domain.TaskSummary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tCATEGORY\tTITLE")
	for _, item := range items {
		title := item.Title
		if item.ActiveSessionID != "" {
			title += " (running)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(item.ID),
			item.Status,
			item.Priority,
			item.Category,
			title,
		)
	}
	_ = tw.Flush()
}

// newShowCommand creates the show command for displaying task details.
func newShowCommand(c *app.Container) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long: `Display the full record of a task: description, history and run sessions.

The task may be named by its full ID or any unique prefix.

Examples:
  kanban show 1a2b3c4d
  kanban show 1a2b -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out, err := c.GetTaskUseCase().Execute(cmd.Context(), usecase.GetTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch output {
			case formatJSON:
				return writeJSON(w, out.Task)
			case formatYAML:
				return writeYAML(w, out.Task)
			case formatText, "":
				printTaskDetails(w, out.Task, branchDisplay(c, out.Task.BranchTarget))
				return nil
			default:
				return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidArguments, output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, json, yaml")

	return cmd
}

// branchDisplay renders a branch target, naming the checked-out branch for "current".
func branchDisplay(c *app.Container, b domain.BranchTarget) string {
	if b.Type == domain.BranchNew {
		return "new branch " + b.Name
	}
	if c.Branches == nil {
		return "current"
	}
	name, err := c.Branches.CurrentBranch()
	if err != nil || name == "" {
		return "current"
	}
	return fmt.Sprintf("current (%s)", name)
}

// printTaskDetails prints the full record of a task.
func printTaskDetails(w io.Writer, task *domain.Task, branch string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", task.ID, task.Title)
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", task.Status.Display())
	_, _ = fmt.Fprintf(w, "  Category: %s\n", task.Category)
	_, _ = fmt.Fprintf(w, "  Priority: %s\n", task.Priority)
	_, _ = fmt.Fprintf(w, "  Branch:   %s\n", branch)
	_, _ = fmt.Fprintf(w, "  Created:  %s\n", task.CreatedAt.Local().Format(time.DateTime))
	_, _ = fmt.Fprintf(w, "  Updated:  %s\n", task.UpdatedAt.Local().Format(time.DateTime))

	if task.Description != "" {
		_, _ = fmt.Fprintln(w)
		for _, line := range strings.Split(task.Description, "\n") {
			_, _ = fmt.Fprintf(w, "  %s\n", line)
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "History:")
	for _, h := range task.History {
		from := "-"
		if h.From != nil {
			from = string(*h.From)
		}
		line := fmt.Sprintf("  %s  %s -> %s by %s", h.At.Local().Format(time.DateTime), from, h.To, h.By)
		if h.Reason != "" {
			line += " (" + h.Reason + ")"
		}
		if !h.IsHappyPath() {
			line += " [manual]"
		}
		_, _ = fmt.Fprintln(w, line)
	}

	if len(task.RunSessions) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Sessions:")
	for _, s := range task.RunSessions {
		ended := ""
		if s.EndedAt != nil {
			ended = " - " + s.EndedAt.Local().Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(w, "  %s [%s] %s%s\n", s.SessionID, s.Status, s.StartedAt.Local().Format(time.DateTime), ended)
		for _, l := range s.Logs {
			_, _ = fmt.Fprintf(w, "    %s %-9s %s\n", l.Timestamp.Local().Format(time.TimeOnly), l.Type, l.Message)
		}
	}
}

// newEditCommand creates the edit command for updating task fields.
func newEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title         string
		Description   string
		Category      string
		Priority      string
		Branch        string
		CurrentBranch bool
		Editor        bool
	}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit task fields",
		Long: `Edit the title, description, category, priority or branch target of a task.

Only flags that are given change the task; status is changed with move.
With --editor the title and description open in $EDITOR as markdown:
the first "# " heading is the title and the rest is the description.

Examples:
  kanban edit 1a2b --priority high
  kanban edit 1a2b --branch feat/login
  kanban edit 1a2b --current-branch
  kanban edit 1a2b --editor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			input := usecase.UpdateTaskInput{TaskID: taskID}
			flags := cmd.Flags()

			if opts.Editor {
				title, description, err := editTaskWithEditor(cmd.Context(), c, taskID)
				if err != nil {
					return err
				}
				input.Title = &title
				input.Description = &description
			}
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("body") {
				input.Description = &opts.Description
			}
			if flags.Changed("category") {
				cat, err := domain.ParseCategory(opts.Category)
				if err != nil {
					return err
				}
				input.Category = &cat
			}
			if flags.Changed("priority") {
				p, err := domain.ParsePriority(opts.Priority)
				if err != nil {
					return err
				}
				input.Priority = &p
			}
			if flags.Changed("branch") && opts.CurrentBranch {
				return fmt.Errorf("%w: --branch and --current-branch cannot be used together", domain.ErrInvalidArguments)
			}
			if flags.Changed("branch") {
				target := domain.NewBranch(opts.Branch)
				input.BranchTarget = &target
			}
			if opts.CurrentBranch {
				target := domain.CurrentBranch()
				input.BranchTarget = &target
			}

			out, err := c.UpdateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "body", "b", "", "New description")
	cmd.Flags().StringVar(&opts.Category, "category", "", "New category")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "Run on a new branch with this name")
	cmd.Flags().BoolVar(&opts.CurrentBranch, "current-branch", false, "Run on the current branch")
	cmd.Flags().BoolVarP(&opts.Editor, "editor", "e", false, "Edit title and description in $EDITOR")

	return cmd
}

// newRmCommand creates the rm command for deleting tasks.
func newRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Long: `Delete a task and its history from the board.

Examples:
  kanban rm 1a2b3c4d`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := resolveTaskID(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: taskID})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", taskID, out.Title)
			return nil
		},
	}
}

// resolveTaskID expands a unique ID prefix to the full task ID.
// An exact match always wins.
func resolveTaskID(ctx context.Context, c *app.Container, ref string) (string, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return "", domain.ErrTaskNotFound
	}

	tasks, err := c.Tasks.Load(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", domain.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", domain.ErrInvalidArguments, ref, len(matches))
	}
}

// shortID returns the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML renders v through its JSON form so field names match the document.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
