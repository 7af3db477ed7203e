package domain

import "strings"

// Status represents the board column a task is in.
type Status string

const (
	StatusBacklog         Status = "BACKLOG"          // Created, awaiting a run
	StatusInProgress      Status = "IN_PROGRESS"      // An agent run is active
	StatusWaitingApproval Status = "WAITING_APPROVAL" // Run stopped, awaiting human review
	StatusFinished        Status = "FINISHED"         // Accepted
)

// AllStatuses returns all valid status values in board order.
func AllStatuses() []Status {
	return []Status{
		StatusBacklog,
		StatusInProgress,
		StatusWaitingApproval,
		StatusFinished,
	}
}

// transitions defines the happy-path flow.
// Flow: BACKLOG → IN_PROGRESS → WAITING_APPROVAL → FINISHED
//
//	↑                  ↓
//	└──── (rework) ────┘
//
// Manual moves may go anywhere; this table is informational.
var transitions = map[Status][]Status{
	StatusBacklog:         {StatusInProgress},
	StatusInProgress:      {StatusWaitingApproval},
	StatusWaitingApproval: {StatusInProgress, StatusFinished},
	StatusFinished:        {},
}

// CanTransitionTo returns true if moving to target follows the happy path.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusWaitingApproval, StatusFinished:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusFinished
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusBacklog:
		return "Backlog"
	case StatusInProgress:
		return "In Progress"
	case StatusWaitingApproval:
		return "Waiting Approval"
	case StatusFinished:
		return "Finished"
	default:
		return string(s)
	}
}

// ParseStatus parses a status case-insensitively.
// Hyphens and spaces are accepted in place of underscores.
func ParseStatus(s string) (Status, error) {
	st := Status(normalizeEnum(s))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Category is the functional area of a task.
type Category string

const (
	CategoryCore Category = "CORE"
	CategoryUI   Category = "UI"
	CategoryAPI  Category = "API"
)

// AllCategories returns all valid categories.
func AllCategories() []Category {
	return []Category{CategoryCore, CategoryUI, CategoryAPI}
}

// IsValid returns true if the category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCore, CategoryUI, CategoryAPI:
		return true
	default:
		return false
	}
}

// ParseCategory parses a category case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(normalizeEnum(s))
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Priority orders work within the backlog.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// AllPriorities returns all valid priorities, highest first.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank returns the sort rank of the priority; lower sorts first.
// Unknown values sort after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// ParsePriority parses a priority case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(normalizeEnum(s))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Actor identifies who caused a status transition.
type Actor string

const (
	ActorUser   Actor = "user"
	ActorAgent  Actor = "agent"
	ActorSystem Actor = "system"
)

// IsValid returns true if the actor is a known value.
func (a Actor) IsValid() bool {
	switch a {
	case ActorUser, ActorAgent, ActorSystem:
		return true
	default:
		return false
	}
}

// ParseActor parses an actor case-insensitively.
func ParseActor(s string) (Actor, error) {
	a := Actor(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", ErrInvalidActor
	}
	return a, nil
}

// SessionStatus is the state of a run session.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionStopped   SessionStatus = "stopped"
	SessionCompleted SessionStatus = "completed"
)

// LogType classifies a log entry.
type LogType string

const (
	LogProgress  LogType = "progress"
	LogMilestone LogType = "milestone"
	LogWarning   LogType = "warning"
	LogError     LogType = "error"
	LogInfo      LogType = "info"
)

// IsValid returns true if the log type is a known value.
func (l LogType) IsValid() bool {
	switch l {
	case LogProgress, LogMilestone, LogWarning, LogError, LogInfo:
		return true
	default:
		return false
	}
}

// ParseLogType parses a log type; empty input yields LogInfo.
func ParseLogType(s string) (LogType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LogInfo, nil
	}
	l := LogType(s)
	if !l.IsValid() {
		return "", ErrInvalidLogType
	}
	return l, nil
}

func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
