package mcp

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// Tool names.
const (
	ToolListTasks             = "listTasks"
	ToolGetTask               = "getTask"
	ToolCreateTask            = "createTask"
	ToolCreateTaskFromContext = "createTaskFromContext"
	ToolUpdateTask            = "updateTask"
	ToolUpdateStatus          = "updateStatus"
	ToolStartRun              = "startRun"
	ToolStopRun               = "stopRun"
	ToolAddLog                = "addLog"
	ToolClaimNextTask         = "claimNextTask"
)

const argProject = "project"

// Enum values offered to clients.
var (
	statusValues   = []string{"BACKLOG", "IN_PROGRESS", "WAITING_APPROVAL", "FINISHED"}
	categoryValues = []string{"CORE", "UI", "API"}
	priorityValues = []string{"HIGH", "MEDIUM", "LOW"}
	actorValues    = []string{"user", "agent", "system"}
	logTypeValues  = []string{"progress", "milestone", "warning", "error", "info"}
)

func projectOption() mcp.ToolOption {
	return mcp.WithString(argProject, mcp.Description("Project root path or ID (defaults to the server's project)"))
}

func taskIDOption() mcp.ToolOption {
	return mcp.WithString("taskId", mcp.Description("Task ID"), mcp.Required())
}

func branchTargetOption() mcp.ToolOption {
	return mcp.WithObject("branchTarget",
		mcp.Description(`Branch to work on: {"type":"current"} or {"type":"new","name":"feature/x"}`),
		mcp.Properties(map[string]any{
			"type": map[string]any{"type": "string", "enum": []string{"current", "new"}},
			"name": map[string]any{"type": "string"},
		}),
	)
}

func createTaskOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("title", mcp.Description("Task title (at least 3 characters)"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Task description")),
		mcp.WithString("category", mcp.Description("Category (default CORE)"), mcp.Enum(categoryValues...)),
		mcp.WithString("priority", mcp.Description("Priority (default MEDIUM)"), mcp.Enum(priorityValues...)),
		branchTargetOption(),
		projectOption(),
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool(ToolListTasks,
		mcp.WithDescription("List tasks sorted by priority (HIGH first) then creation time, one page at a time."),
		mcp.WithArray("statuses", mcp.Description("Only these statuses"), mcp.WithStringItems(mcp.Enum(statusValues...))),
		mcp.WithArray("categories", mcp.Description("Only these categories"), mcp.WithStringItems(mcp.Enum(categoryValues...))),
		mcp.WithArray("priorities", mcp.Description("Only these priorities"), mcp.WithStringItems(mcp.Enum(priorityValues...))),
		mcp.WithString("search", mcp.Description("Case-insensitive text in title or description")),
		mcp.WithString("cursor", mcp.Description("nextCursor from the previous page")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 100)")),
		projectOption(),
	), s.handle(ToolListTasks, listTasks))

	s.mcp.AddTool(mcp.NewTool(ToolGetTask,
		mcp.WithDescription("Get the full record of a task, including history and run sessions."),
		taskIDOption(),
		projectOption(),
	), s.handle(ToolGetTask, getTask))

	s.mcp.AddTool(mcp.NewTool(ToolCreateTask,
		append([]mcp.ToolOption{mcp.WithDescription("Create a task in BACKLOG.")}, createTaskOptions()...)...,
	), s.handle(ToolCreateTask, createTask))

	s.mcp.AddTool(mcp.NewTool(ToolCreateTaskFromContext,
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a task whose description includes related files, acceptance criteria and technical notes."),
			mcp.WithArray("relatedFiles", mcp.Description("Files relevant to the task"), mcp.WithStringItems()),
			mcp.WithArray("acceptanceCriteria", mcp.Description("Conditions for done"), mcp.WithStringItems()),
			mcp.WithString("technicalNotes", mcp.Description("Implementation notes")),
		}, createTaskOptions()...)...,
	), s.handle(ToolCreateTaskFromContext, createTaskFromContext))

	s.mcp.AddTool(mcp.NewTool(ToolUpdateTask,
		mcp.WithDescription("Update editable fields of a task. Omitted fields are unchanged."),
		taskIDOption(),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("category", mcp.Description("New category"), mcp.Enum(categoryValues...)),
		mcp.WithString("priority", mcp.Description("New priority"), mcp.Enum(priorityValues...)),
		branchTargetOption(),
		projectOption(),
	), s.handle(ToolUpdateTask, updateTask))

	s.mcp.AddTool(mcp.NewTool(ToolUpdateStatus,
		mcp.WithDescription("Move a task to any status and record who did it."),
		taskIDOption(),
		mcp.WithString("status", mcp.Description("Target status"), mcp.Required(), mcp.Enum(statusValues...)),
		mcp.WithString("by", mcp.Description("Who made the change (default user)"), mcp.Enum(actorValues...)),
		mcp.WithString("reason", mcp.Description("Why the status changed")),
		mcp.WithString("sessionId", mcp.Description("Related run session")),
		projectOption(),
	), s.handle(ToolUpdateStatus, updateStatus))

	s.mcp.AddTool(mcp.NewTool(ToolStartRun,
		mcp.WithDescription("Start a run session and move the task to IN_PROGRESS. Fails if a session is already running."),
		taskIDOption(),
		projectOption(),
	), s.handle(ToolStartRun, startRun))

	s.mcp.AddTool(mcp.NewTool(ToolStopRun,
		mcp.WithDescription("Stop a run session and move the task to WAITING_APPROVAL."),
		taskIDOption(),
		mcp.WithString("sessionId", mcp.Description("Session to stop (default: the running session)")),
		projectOption(),
	), s.handle(ToolStopRun, stopRun))

	s.mcp.AddTool(mcp.NewTool(ToolAddLog,
		mcp.WithDescription("Append a log entry to a run session."),
		taskIDOption(),
		mcp.WithString("sessionId", mcp.Description("Run session ID"), mcp.Required()),
		mcp.WithString("message", mcp.Description("Log message"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Entry type (default info)"), mcp.Enum(logTypeValues...)),
		projectOption(),
	), s.handle(ToolAddLog, addLog))

	s.mcp.AddTool(mcp.NewTool(ToolClaimNextTask,
		mcp.WithDescription("Return the next BACKLOG task by priority and age without changing it. Call startRun to begin work."),
		mcp.WithArray("categories", mcp.Description("Only these categories"), mcp.WithStringItems(mcp.Enum(categoryValues...))),
		mcp.WithArray("priorities", mcp.Description("Only these priorities"), mcp.WithStringItems(mcp.Enum(priorityValues...))),
		projectOption(),
	), s.handle(ToolClaimNextTask, claimNextTask))
}

type listTasksArgs struct {
	Statuses   []string `json:"statuses"`
	Categories []string `json:"categories"`
	Priorities []string `json:"priorities"`
	Search     string   `json:"search"`
	Cursor     string   `json:"cursor"`
	Limit      int      `json:"limit"`
}

func listTasks(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args listTasksArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	filter, err := domain.ParseTaskFilter(args.Statuses, args.Categories, args.Priorities, args.Search)
	if err != nil {
		return nil, err
	}
	out, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{
		Filter: filter,
		Cursor: args.Cursor,
		Limit:  args.Limit,
	})
	if err != nil {
		return nil, err
	}
	return domain.ListResult{NextCursor: out.NextCursor, Items: out.Items}, nil
}

type taskIDArgs struct {
	TaskID string `json:"taskId"`
}

func requireTaskID(req mcp.CallToolRequest) (string, error) {
	var args taskIDArgs
	if err := bindArgs(req, &args); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.TaskID) == "" {
		return "", domain.ErrTaskNotFound
	}
	return args.TaskID, nil
}

func getTask(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	id, err := requireTaskID(req)
	if err != nil {
		return nil, err
	}
	out, err := c.GetTaskUseCase().Execute(ctx, usecase.GetTaskInput{TaskID: id})
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

type createTaskArgs struct {
	BranchTarget *domain.BranchTarget `json:"branchTarget"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	Priority     string               `json:"priority"`
}

func (a createTaskArgs) input() usecase.CreateTaskInput {
	return usecase.CreateTaskInput{
		BranchTarget: a.BranchTarget,
		Title:        a.Title,
		Description:  a.Description,
		Category:     domain.Category(a.Category),
		Priority:     domain.Priority(a.Priority),
	}
}

func createTask(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args createTaskArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	out, err := c.CreateTaskUseCase().Execute(ctx, args.input())
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

type createTaskFromContextArgs struct {
	RelatedFiles       []string `json:"relatedFiles"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	TechnicalNotes     string   `json:"technicalNotes"`
	createTaskArgs
}

func createTaskFromContext(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args createTaskFromContextArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	out, err := c.CreateTaskFromContextUseCase().Execute(ctx, usecase.CreateTaskFromContextInput{
		RelatedFiles:       args.RelatedFiles,
		AcceptanceCriteria: args.AcceptanceCriteria,
		TechnicalNotes:     args.TechnicalNotes,
		CreateTaskInput:    args.input(),
	})
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

type updateTaskArgs struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Category     *string              `json:"category"`
	Priority     *string              `json:"priority"`
	BranchTarget *domain.BranchTarget `json:"branchTarget"`
	TaskID       string               `json:"taskId"`
}

func updateTask(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args updateTaskArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	in := usecase.UpdateTaskInput{
		TaskID:       args.TaskID,
		Title:        args.Title,
		Description:  args.Description,
		BranchTarget: args.BranchTarget,
	}
	if args.Category != nil {
		cat := domain.Category(*args.Category)
		in.Category = &cat
	}
	if args.Priority != nil {
		prio := domain.Priority(*args.Priority)
		in.Priority = &prio
	}
	out, err := c.UpdateTaskUseCase().Execute(ctx, in)
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

type updateStatusArgs struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	By        string `json:"by"`
	Reason    string `json:"reason"`
	SessionID string `json:"sessionId"`
}

func updateStatus(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args updateStatusArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	out, err := c.UpdateStatusUseCase().Execute(ctx, usecase.UpdateStatusInput{
		TaskID:    args.TaskID,
		Status:    domain.Status(args.Status),
		By:        domain.Actor(args.By),
		Reason:    args.Reason,
		SessionID: args.SessionID,
	})
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}

// runResult is returned by startRun and stopRun.
type runResult struct {
	Task      *domain.Task       `json:"task"`
	Session   *domain.RunSession `json:"session"`
	SessionID string             `json:"sessionId"`
}

func newRunResult(task *domain.Task, sessionID string) runResult {
	return runResult{Task: task, Session: task.FindSession(sessionID), SessionID: sessionID}
}

func startRun(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	id, err := requireTaskID(req)
	if err != nil {
		return nil, err
	}
	out, err := c.StartRunUseCase().Execute(ctx, usecase.StartRunInput{TaskID: id})
	if err != nil {
		return nil, err
	}
	return newRunResult(out.Task, out.SessionID), nil
}

type stopRunArgs struct {
	TaskID    string `json:"taskId"`
	SessionID string `json:"sessionId"`
}

func stopRun(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args stopRunArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	out, err := c.StopRunUseCase().Execute(ctx, usecase.StopRunInput{TaskID: args.TaskID, SessionID: args.SessionID})
	if err != nil {
		return nil, err
	}
	return newRunResult(out.Task, out.SessionID), nil
}

type addLogArgs struct {
	TaskID    string `json:"taskId"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

func addLog(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args addLogArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	out, err := c.AddLogUseCase().Execute(ctx, usecase.AddLogInput{
		TaskID:    args.TaskID,
		SessionID: args.SessionID,
		Message:   args.Message,
		Type:      domain.LogType(args.Type),
	})
	if err != nil {
		return nil, err
	}
	return out.Entry, nil
}

type claimNextTaskArgs struct {
	Categories []string `json:"categories"`
	Priorities []string `json:"priorities"`
}

func claimNextTask(ctx context.Context, c *app.Container, req mcp.CallToolRequest) (any, error) {
	var args claimNextTaskArgs
	if err := bindArgs(req, &args); err != nil {
		return nil, err
	}
	cats, err := domain.ParseCategories(args.Categories)
	if err != nil {
		return nil, err
	}
	prios, err := domain.ParsePriorities(args.Priorities)
	if err != nil {
		return nil, err
	}
	out, err := c.ClaimNextTaskUseCase().Execute(ctx, usecase.ClaimNextTaskInput{Categories: cats, Priorities: prios})
	if err != nil {
		return nil, err
	}
	return out.Task, nil
}
