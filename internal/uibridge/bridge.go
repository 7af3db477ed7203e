package uibridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

// Bridge dispatches UI requests for one connection.
type Bridge struct {
	registry *app.Registry
	session  app.Session
	mu       sync.Mutex
}

// New creates a bridge whose session starts on the given project.
func New(registry *app.Registry, session app.Session) *Bridge {
	return &Bridge{registry: registry, session: session}
}

// Session returns the connection's current session.
func (b *Bridge) Session() app.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

func (b *Bridge) setSession(s app.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = s
}

// Handle runs one request and returns the responses to send, in order.
// Failures become a single error response; Handle never returns a Go error.
func (b *Bridge) Handle(ctx context.Context, req Request) []Response {
	out, err := b.dispatch(ctx, req)
	if err != nil {
		return []Response{errorResponse(req.RequestID, err)}
	}
	for i := range out {
		out[i].RequestID = req.RequestID
	}
	return out
}

func (b *Bridge) dispatch(ctx context.Context, req Request) ([]Response, error) {
	if req.Type == ReqSwitchProject {
		return b.switchProject(ctx, req)
	}

	c, err := b.registry.Resolve(b.Session(), req.ProjectID)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case ReqReady:
		board, err := boardState(ctx, c)
		if err != nil {
			return nil, err
		}
		return []Response{b.projectsState(), board}, nil
	case ReqRefresh:
		board, err := boardState(ctx, c)
		if err != nil {
			return nil, err
		}
		return []Response{board}, nil
	case ReqCreateTask:
		return createTask(ctx, c, req.Payload)
	case ReqUpdateTask:
		return updateTask(ctx, c, req.Payload)
	case ReqDeleteTask:
		return deleteTask(ctx, c, req.Payload)
	case ReqMoveTask:
		return moveTask(ctx, c, req.Payload)
	case ReqRunTask:
		return runTask(ctx, c, req.Payload)
	case ReqStopTask:
		return stopTask(ctx, c, req.Payload)
	case ReqFinishTask:
		return finishTask(ctx, c, req.Payload)
	case ReqGetTaskDetails:
		return taskDetails(ctx, c, req.Payload)
	default:
		return nil, fmt.Errorf("%w: unknown request type %q", domain.ErrInvalidArguments, req.Type)
	}
}

func (b *Bridge) switchProject(ctx context.Context, req Request) ([]Response, error) {
	var p switchProjectPayload
	if err := decode(req.Payload, &p); err != nil {
		return nil, err
	}
	ref := p.Project
	if ref == "" {
		ref = req.ProjectID
	}
	if ref == "" {
		return nil, domain.ErrProjectNotFound
	}
	c, err := b.registry.Lookup(ref)
	if err != nil {
		return nil, err
	}
	b.setSession(app.Session{ProjectID: c.Config.ProjectID})

	board, err := boardState(ctx, c)
	if err != nil {
		return nil, err
	}
	return []Response{b.projectsState(), board}, nil
}

func (b *Bridge) projectsState() Response {
	refs := b.registry.Projects()
	infos := make([]ProjectInfo, 0, len(refs))
	for _, r := range refs {
		infos = append(infos, ProjectInfo{ID: r.ID, Name: r.Name, Root: r.Root})
	}
	return Response{
		Type: RespProjectsState,
		Payload: ProjectsStatePayload{
			ActiveProjectID: b.Session().ProjectID,
			Projects:        infos,
		},
	}
}

func boardState(ctx context.Context, c *app.Container) (Response, error) {
	out, err := c.BoardStateUseCase().Execute(ctx)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Type:    RespBoardState,
		Payload: BoardStatePayload{ProjectID: c.Config.ProjectID, Board: out.Board},
	}, nil
}

// withBoard appends a fresh board after a mutation.
func withBoard(ctx context.Context, c *app.Container, first Response) ([]Response, error) {
	board, err := boardState(ctx, c)
	if err != nil {
		return nil, err
	}
	return []Response{first, board}, nil
}

func createTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p createTaskPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.CreateTaskUseCase().Execute(ctx, usecase.CreateTaskInput{
		BranchTarget: p.BranchTarget,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Priority:     p.Priority,
	})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{Type: RespTaskCreated, Payload: TaskPayload{Task: out.Task}})
}

func updateTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p updateTaskPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.UpdateTaskUseCase().Execute(ctx, usecase.UpdateTaskInput{
		TaskID:       p.TaskID,
		Title:        p.Title,
		Description:  p.Description,
		Category:     p.Category,
		Priority:     p.Priority,
		BranchTarget: p.BranchTarget,
	})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{Type: RespTaskUpdated, Payload: TaskPayload{Task: out.Task}})
}

func deleteTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p taskIDPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	if _, err := c.DeleteTaskUseCase().Execute(ctx, usecase.DeleteTaskInput{TaskID: p.TaskID}); err != nil {
		return nil, err
	}
	board, err := boardState(ctx, c)
	if err != nil {
		return nil, err
	}
	return []Response{board}, nil
}

func moveTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p moveTaskPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.UpdateStatusUseCase().Execute(ctx, usecase.UpdateStatusInput{
		TaskID: p.TaskID,
		Status: p.Status,
		By:     domain.ActorUser,
		Reason: p.Reason,
	})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{Type: RespTaskUpdated, Payload: TaskPayload{Task: out.Task}})
}

func runTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p taskIDPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.StartRunUseCase().Execute(ctx, usecase.StartRunInput{TaskID: p.TaskID})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{
		Type:    RespTaskRunStarted,
		Payload: RunStartedPayload{Task: out.Task, SessionID: out.SessionID},
	})
}

func stopTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p stopTaskPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.StopRunUseCase().Execute(ctx, usecase.StopRunInput{TaskID: p.TaskID, SessionID: p.SessionID})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{Type: RespTaskUpdated, Payload: TaskPayload{Task: out.Task}})
}

func finishTask(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p taskIDPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.UpdateStatusUseCase().Execute(ctx, usecase.UpdateStatusInput{
		TaskID: p.TaskID,
		Status: domain.StatusFinished,
		By:     domain.ActorUser,
		Reason: "approved",
	})
	if err != nil {
		return nil, err
	}
	return withBoard(ctx, c, Response{Type: RespTaskUpdated, Payload: TaskPayload{Task: out.Task}})
}

func taskDetails(ctx context.Context, c *app.Container, raw json.RawMessage) ([]Response, error) {
	var p taskIDPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	out, err := c.GetTaskUseCase().Execute(ctx, usecase.GetTaskInput{TaskID: p.TaskID})
	if err != nil {
		return nil, err
	}
	return []Response{{Type: RespTaskDetails, Payload: TaskPayload{Task: out.Task}}}, nil
}

// decode unmarshals an optional payload.
func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArguments, err)
	}
	return nil
}

func errorResponse(requestID string, err error) Response {
	return Response{
		Type:      RespError,
		RequestID: requestID,
		Payload: ErrorPayload{
			Message: domain.UserMessage(err),
			Kind:    domain.ClassifyError(err),
		},
	}
}
