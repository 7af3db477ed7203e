// Package uibridge serves the board UI over newline-delimited JSON.
// Each connection keeps its own project session.
package uibridge

import (
	"encoding/json"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Request types sent by the UI.
const (
	ReqReady          = "ready"
	ReqCreateTask     = "createTask"
	ReqUpdateTask     = "updateTask"
	ReqDeleteTask     = "deleteTask"
	ReqMoveTask       = "moveTask"
	ReqRunTask        = "runTask"
	ReqStopTask       = "stopTask"
	ReqFinishTask     = "finishTask"
	ReqGetTaskDetails = "getTaskDetails"
	ReqRefresh        = "refresh"
	ReqSwitchProject  = "switchProject"
)

// Response types sent to the UI.
const (
	RespBoardState     = "boardState"
	RespTaskDetails    = "taskDetails"
	RespError          = "error"
	RespTaskCreated    = "taskCreated"
	RespTaskUpdated    = "taskUpdated"
	RespTaskRunStarted = "taskRunStarted"
	RespProjectsState  = "projectsState"
)

// Request is one message from the UI.
type Request struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	ProjectID string          `json:"projectId,omitempty"` // Overrides the session project for this request
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Response is one message to the UI.
// Unsolicited pushes carry no RequestID.
type Response struct {
	Payload   any    `json:"payload"`
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
}

// Request payloads.

type taskIDPayload struct {
	TaskID string `json:"taskId"`
}

type createTaskPayload struct {
	BranchTarget *domain.BranchTarget `json:"branchTarget"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Category     domain.Category      `json:"category"`
	Priority     domain.Priority      `json:"priority"`
}

type updateTaskPayload struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	Category     *domain.Category     `json:"category"`
	Priority     *domain.Priority     `json:"priority"`
	BranchTarget *domain.BranchTarget `json:"branchTarget"`
	TaskID       string               `json:"taskId"`
}

type moveTaskPayload struct {
	TaskID string        `json:"taskId"`
	Status domain.Status `json:"status"`
	Reason string        `json:"reason"`
}

type stopTaskPayload struct {
	TaskID    string `json:"taskId"`
	SessionID string `json:"sessionId"`
}

type switchProjectPayload struct {
	Project string `json:"project"` // Project ID or root path
}

// Response payloads.

// BoardStatePayload carries the whole board of one project.
type BoardStatePayload struct {
	ProjectID string            `json:"projectId"`
	Board     domain.BoardState `json:"board"`
}

// TaskPayload carries one full task record.
type TaskPayload struct {
	Task *domain.Task `json:"task"`
}

// RunStartedPayload carries the task and its new session.
type RunStartedPayload struct {
	Task      *domain.Task `json:"task"`
	SessionID string       `json:"sessionId"`
}

// ErrorPayload describes a failed request.
type ErrorPayload struct {
	Message string           `json:"message"`
	Kind    domain.ErrorKind `json:"kind"`
}

// ProjectInfo describes one open project.
type ProjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Root string `json:"root"`
}

// ProjectsStatePayload lists open projects and the session's project.
type ProjectsStatePayload struct {
	ActiveProjectID string        `json:"activeProjectId"`
	Projects        []ProjectInfo `json:"projects"`
}
