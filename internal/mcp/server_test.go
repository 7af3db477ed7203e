package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/app"
	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/usecase"
)

type fixture struct {
	server   *Server
	registry *app.Registry
}

func newProject(t *testing.T, reg *app.Registry, name string) *app.Container {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(root, 0o755))
	c, err := reg.Open(root)
	require.NoError(t, err)
	_, err = c.InitProjectUseCase().Execute(context.Background(), usecase.InitProjectInput{StoreDir: c.Config.StoreDir})
	require.NoError(t, err)
	return c
}

func newFixture(t *testing.T) (*fixture, *app.Container) {
	t.Helper()
	globalDir := t.TempDir()
	reg := app.NewRegistry(func(root string) (*app.Container, error) {
		return app.NewForRoot(root, app.Options{GlobalDir: globalDir})
	}, nil)
	t.Cleanup(func() { _ = reg.Close() })

	c := newProject(t, reg, "main")
	s := NewServer(reg, app.Session{ProjectID: c.Config.ProjectID}, "test")
	return &fixture{server: s, registry: reg}, c
}

func (f *fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := f.server.MCPServer().GetTool(name)
	require.NotNil(t, tool, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "tool errors must not be transport errors")
	return result
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content)
	text, ok := r.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func decode[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, r.IsError, "unexpected error: %s", resultText(t, r))
	var v T
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &v))
	return v
}

func errorMessage(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, r.IsError)
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, r)), &payload))
	return payload["error"]
}

func TestServer_RegistersAllTools(t *testing.T) {
	f, _ := newFixture(t)

	for _, name := range []string{
		ToolListTasks, ToolGetTask, ToolCreateTask, ToolCreateTaskFromContext, ToolUpdateTask,
		ToolUpdateStatus, ToolStartRun, ToolStopRun, ToolAddLog, ToolClaimNextTask,
	} {
		assert.NotNil(t, f.server.MCPServer().GetTool(name), name)
	}
}

func TestServer_Scenario(t *testing.T) {
	f, _ := newFixture(t)

	// Create
	task := decode[domain.Task](t, f.call(t, ToolCreateTask, map[string]any{
		"title":        "Fix login bug",
		"category":     "CORE",
		"priority":     "HIGH",
		"branchTarget": map[string]any{"type": "current"},
	}))
	assert.Equal(t, domain.StatusBacklog, task.Status)
	assert.Len(t, task.History, 1)

	// Claim does not mutate
	claimed := decode[domain.Task](t, f.call(t, ToolClaimNextTask, map[string]any{}))
	assert.Equal(t, task.ID, claimed.ID)
	assert.Equal(t, domain.StatusBacklog, claimed.Status)

	// Start
	started := decode[runResult](t, f.call(t, ToolStartRun, map[string]any{"taskId": task.ID}))
	assert.Equal(t, domain.StatusInProgress, started.Task.Status)
	require.NotNil(t, started.Session)
	assert.Equal(t, domain.SessionRunning, started.Session.Status)

	// Log
	entry := decode[domain.LogEntry](t, f.call(t, ToolAddLog, map[string]any{
		"taskId":    task.ID,
		"sessionId": started.SessionID,
		"message":   "found root cause",
		"type":      "milestone",
	}))
	assert.Equal(t, domain.LogMilestone, entry.Type)

	// Stop
	stopped := decode[runResult](t, f.call(t, ToolStopRun, map[string]any{
		"taskId":    task.ID,
		"sessionId": started.SessionID,
	}))
	assert.Equal(t, domain.StatusWaitingApproval, stopped.Task.Status)
	require.NotNil(t, stopped.Session)
	assert.NotNil(t, stopped.Session.EndedAt)
	assert.Len(t, stopped.Session.Logs, 2)

	// Approve
	finished := decode[domain.Task](t, f.call(t, ToolUpdateStatus, map[string]any{
		"taskId": task.ID,
		"status": "FINISHED",
		"by":     "user",
		"reason": "approved",
	}))
	assert.Equal(t, domain.StatusFinished, finished.Status)

	// Claim on empty backlog returns null
	assert.Equal(t, "null", resultText(t, f.call(t, ToolClaimNextTask, map[string]any{})))
}

func TestServer_ListTasks(t *testing.T) {
	f, _ := newFixture(t)
	for _, p := range []string{"LOW", "HIGH", "MEDIUM"} {
		decode[domain.Task](t, f.call(t, ToolCreateTask, map[string]any{"title": "Task " + p, "priority": p}))
	}

	page := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{"limit": 2.0}))
	require.Len(t, page.Items, 2)
	assert.Equal(t, domain.PriorityHigh, page.Items[0].Priority)
	assert.Equal(t, domain.PriorityMedium, page.Items[1].Priority)
	require.NotNil(t, page.NextCursor)

	rest := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{"cursor": *page.NextCursor}))
	require.Len(t, rest.Items, 1)
	assert.Nil(t, rest.NextCursor)

	filtered := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{
		"priorities": []any{"low"},
	}))
	require.Len(t, filtered.Items, 1)
	assert.Equal(t, "Task LOW", filtered.Items[0].Title)
}

func TestServer_CreateTaskFromContext(t *testing.T) {
	f, _ := newFixture(t)

	task := decode[domain.Task](t, f.call(t, ToolCreateTaskFromContext, map[string]any{
		"title":              "Add rate limiting",
		"description":        "Protect the API.",
		"relatedFiles":       []any{"api/server.go"},
		"acceptanceCriteria": []any{"429 on burst"},
		"technicalNotes":     "Use a token bucket.",
	}))

	assert.Contains(t, task.Description, "Protect the API.")
	assert.Contains(t, task.Description, "api/server.go")
	assert.Contains(t, task.Description, "- [ ] 429 on burst")
	assert.Contains(t, task.Description, "Use a token bucket.")
}

func TestServer_UpdateTask(t *testing.T) {
	f, _ := newFixture(t)
	task := decode[domain.Task](t, f.call(t, ToolCreateTask, map[string]any{"title": "Original"}))

	updated := decode[domain.Task](t, f.call(t, ToolUpdateTask, map[string]any{
		"taskId":       task.ID,
		"priority":     "LOW",
		"branchTarget": map[string]any{"type": "new", "name": "feature/x"},
	}))

	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, domain.PriorityLow, updated.Priority)
	assert.Equal(t, domain.NewBranch("feature/x"), updated.BranchTarget)
}

func TestServer_Errors(t *testing.T) {
	f, _ := newFixture(t)

	tests := []struct {
		args     map[string]any
		name     string
		tool     string
		contains string
	}{
		{name: "short title", tool: ToolCreateTask, args: map[string]any{"title": "ab"}, contains: domain.ErrTitleTooShort.Error()},
		{name: "unknown task", tool: ToolGetTask, args: map[string]any{"taskId": "missing"}, contains: domain.ErrTaskNotFound.Error()},
		{name: "bad branch", tool: ToolCreateTask, args: map[string]any{"title": "Valid", "branchTarget": map[string]any{"type": "new"}}, contains: domain.ErrBranchNameRequired.Error()},
		{name: "bad branch type", tool: ToolCreateTask, args: map[string]any{"title": "Valid", "branchTarget": map[string]any{"type": "other"}}, contains: domain.ErrInvalidBranchTarget.Error()},
		{name: "bad status", tool: ToolListTasks, args: map[string]any{"statuses": []any{"DONE"}}, contains: domain.ErrInvalidStatus.Error()},
		{name: "wrong arg type", tool: ToolCreateTask, args: map[string]any{"title": 42}, contains: domain.ErrInvalidArguments.Error()},
		{name: "unknown project", tool: ToolListTasks, args: map[string]any{"project": "/no/such/dir"}, contains: domain.ErrProjectNotFound.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.call(t, tt.tool, tt.args)
			assert.Contains(t, errorMessage(t, r), tt.contains)
		})
	}
}

func TestServer_StartRunTwiceFails(t *testing.T) {
	f, _ := newFixture(t)
	task := decode[domain.Task](t, f.call(t, ToolCreateTask, map[string]any{"title": "Run me"}))
	decode[runResult](t, f.call(t, ToolStartRun, map[string]any{"taskId": task.ID}))

	r := f.call(t, ToolStartRun, map[string]any{"taskId": task.ID})

	assert.Contains(t, errorMessage(t, r), domain.ErrSessionRunning.Error())
}

func TestServer_ProjectArgument(t *testing.T) {
	// Setup
	f, main := newFixture(t)
	other := newProject(t, f.registry, "other")

	// Execute
	decode[domain.Task](t, f.call(t, ToolCreateTask, map[string]any{
		"title":    "Other project task",
		argProject: other.Config.Root,
	}))

	// Assert
	mainList := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{}))
	otherList := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{argProject: other.Config.ProjectID}))
	assert.Empty(t, mainList.Items)
	assert.Len(t, otherList.Items, 1)
	assert.NotEqual(t, main.Config.ProjectID, other.Config.ProjectID)
}

func TestServer_StdioInitialize(t *testing.T) {
	f, _ := newFixture(t)
	stdio := server.NewStdioServer(f.server.MCPServer())

	r, w := io.Pipe()
	stdout := &syncBuffer{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() { _ = stdio.Listen(ctx, r, stdout) }()

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo":      map[string]any{"name": "test-client", "version": "1.0.0"},
		},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	_, err = w.Write(append(data, '\n'))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return stdout.Len() > 0 }, time.Second, 10*time.Millisecond)

	var resp struct {
		Result struct {
			ServerInfo struct {
				Name string `json:"name"`
			} `json:"serverInfo"`
		} `json:"result"`
		ID int `json:"id"`
	}
	line, _, _ := bytes.Cut(stdout.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &resp))
	assert.Equal(t, 1, resp.ID)
	assert.Equal(t, ServerName, resp.Result.ServerInfo.Name)
}

func TestServer_RecoversFromHandlerPanic(t *testing.T) {
	// Setup
	f, _ := newFixture(t)
	f.server.MCPServer().AddTool(mcp.NewTool("explode"), func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("boom")
	})
	msg := []byte(`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"explode","arguments":{}}}`)

	// Execute
	resp := f.server.MCPServer().HandleMessage(context.Background(), msg)

	// Assert
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Contains(t, payload.Error.Message, "panic recovered")

	// The server keeps serving other tools
	list := decode[domain.ListResult](t, f.call(t, ToolListTasks, map[string]any{}))
	assert.Empty(t, list.Items)
}
