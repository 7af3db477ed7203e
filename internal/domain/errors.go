package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrSessionNotFound     = errors.New("run session not found")
	ErrSessionRunning      = errors.New("task already has a running session")
	ErrTitleTooShort       = errors.New("title must be at least 3 characters")
	ErrBranchNameRequired  = errors.New("branch name is required when branch target type is 'new'")
	ErrInvalidBranchTarget = errors.New("invalid branch target type")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrInvalidActor        = errors.New("invalid actor")
	ErrInvalidLogType      = errors.New("invalid log type")
	ErrEmptyMessage        = errors.New("message cannot be empty")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrLockTimeout         = errors.New("timed out waiting for the task store lock")
	ErrStoreUnreadable     = errors.New("task store is unreadable")
	ErrNotInitialized      = errors.New("kanban not initialized (run 'kanban init' first)")
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectExists       = errors.New("project already registered")
	ErrInvalidProjectPath  = errors.New("invalid project path")
	ErrConfigExists        = errors.New("config file already exists")
	ErrEmptyFile           = errors.New("file is empty")
	ErrNoTasksInFile       = errors.New("no tasks found in file")
	ErrProjectsCorrupted   = errors.New("known-projects file is corrupted")
	ErrInvalidArguments    = errors.New("invalid arguments")
)

// ErrorKind groups errors by how callers should react to them.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"  // Bad input, do not retry
	KindNotFound    ErrorKind = "not_found"   // Unresolved id, do not retry
	KindConflict    ErrorKind = "conflict"    // State precondition failed
	KindConcurrency ErrorKind = "concurrency" // Lock contention, retry the whole operation
	KindInternal    ErrorKind = "internal"
)

// ClassifyError maps an error onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrTitleTooShort),
		errors.Is(err, ErrBranchNameRequired),
		errors.Is(err, ErrInvalidBranchTarget),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidActor),
		errors.Is(err, ErrInvalidLogType),
		errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrNoFieldsToUpdate),
		errors.Is(err, ErrInvalidProjectPath),
		errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrNoTasksInFile),
		errors.Is(err, ErrInvalidArguments):
		return KindValidation
	case errors.Is(err, ErrTaskNotFound),
		errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrProjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrSessionRunning),
		errors.Is(err, ErrProjectExists),
		errors.Is(err, ErrConfigExists):
		return KindConflict
	case errors.Is(err, ErrLockTimeout):
		return KindConcurrency
	default:
		return KindInternal
	}
}

// UserMessage renders an error as an actionable message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if ClassifyError(err) == KindConcurrency {
		return err.Error() + "; another process is writing, please retry"
	}
	return err.Error()
}
