// Package domain contains core business entities and interfaces.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// MinTitleLength is the minimum number of characters a task title must have.
const MinTitleLength = 3

// Task represents a unit of work tracked on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	BranchTarget BranchTarget   `json:"branchTarget"`
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Category     Category       `json:"category"`
	Priority     Priority       `json:"priority"`
	Status       Status         `json:"status"`
	History      []HistoryEntry `json:"history"`
	RunSessions  []RunSession   `json:"runSessions"`
}

// HistoryEntry is an immutable audit record of one status transition.
// From is nil for the creation transition.
type HistoryEntry struct {
	At        time.Time `json:"at"`
	From      *Status   `json:"from"`
	Reason    string    `json:"reason,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	To        Status    `json:"to"`
	By        Actor     `json:"by"`
}

// IsHappyPath reports whether the entry follows the usual workflow.
// Creation and same-status entries count as on the path.
func (h HistoryEntry) IsHappyPath() bool {
	if h.From == nil || *h.From == h.To {
		return true
	}
	return h.From.CanTransitionTo(h.To)
}

// RunSession is one bounded interval of agent execution against a task.
// Fields are ordered to minimize memory padding.
type RunSession struct {
	StartedAt time.Time     `json:"startedAt"`
	EndedAt   *time.Time    `json:"endedAt,omitempty"`
	SessionID string        `json:"sessionId"`
	Status    SessionStatus `json:"status"`
	Logs      []LogEntry    `json:"logs"`
}

// IsRunning returns true if the session has not been closed.
func (s *RunSession) IsRunning() bool {
	return s.Status == SessionRunning
}

// LogEntry is one message appended to a run session's log stream.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Type      LogType   `json:"type"`
}

// RunningSession returns the session with status running, or nil.
func (t *Task) RunningSession() *RunSession {
	for i := range t.RunSessions {
		if t.RunSessions[i].IsRunning() {
			return &t.RunSessions[i]
		}
	}
	return nil
}

// FindSession returns the session with the given ID, or nil.
func (t *Task) FindSession(sessionID string) *RunSession {
	for i := range t.RunSessions {
		if t.RunSessions[i].SessionID == sessionID {
			return &t.RunSessions[i]
		}
	}
	return nil
}

// LatestSession returns the most recently created session, or nil.
func (t *Task) LatestSession() *RunSession {
	if len(t.RunSessions) == 0 {
		return nil
	}
	return &t.RunSessions[len(t.RunSessions)-1]
}

// IsRunning returns true if the task has a running session.
func (t *Task) IsRunning() bool {
	return t.RunningSession() != nil
}

// Transition moves the task to the given status and appends the audit entry.
// Transitions are never rejected here; policy belongs to callers.
func (t *Task) Transition(to Status, by Actor, reason, sessionID string, at time.Time) {
	from := t.Status
	t.History = append(t.History, HistoryEntry{
		At:        at,
		From:      &from,
		To:        to,
		By:        by,
		Reason:    reason,
		SessionID: sessionID,
	})
	t.Status = to
	t.UpdatedAt = at
}

// BranchType discriminates the BranchTarget union.
type BranchType string

// Branch target variants.
const (
	BranchCurrent BranchType = "current"
	BranchNew     BranchType = "new"
)

// BranchTarget is a tagged union: {type: current} or {type: new, name}.
type BranchTarget struct {
	Type BranchType `json:"type"`
	Name string     `json:"name,omitempty"`
}

// CurrentBranch returns the "current" variant.
func CurrentBranch() BranchTarget {
	return BranchTarget{Type: BranchCurrent}
}

// NewBranch returns the "new" variant with the given branch name.
func NewBranch(name string) BranchTarget {
	return BranchTarget{Type: BranchNew, Name: name}
}

// Validate checks the required fields of each variant.
// An empty Type is treated as "current".
func (b BranchTarget) Validate() error {
	switch b.Type {
	case BranchCurrent, "":
		return nil
	case BranchNew:
		if strings.TrimSpace(b.Name) == "" {
			return ErrBranchNameRequired
		}
		return nil
	default:
		return ErrInvalidBranchTarget
	}
}

// Normalize returns the canonical form of the branch target.
// The name is dropped for "current" and trimmed for "new".
func (b BranchTarget) Normalize() BranchTarget {
	if b.Type == BranchNew {
		return BranchTarget{Type: BranchNew, Name: strings.TrimSpace(b.Name)}
	}
	return CurrentBranch()
}

// String returns a human-readable representation of the branch target.
func (b BranchTarget) String() string {
	if b.Type == BranchNew {
		return "new:" + b.Name
	}
	return string(BranchCurrent)
}

// UnmarshalJSON rejects unknown variants so a malformed document is detected on read.
func (b *BranchTarget) UnmarshalJSON(data []byte) error {
	type raw BranchTarget
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	target := BranchTarget(r)
	if target.Type == "" {
		target.Type = BranchCurrent
	}
	if target.Type != BranchCurrent && target.Type != BranchNew {
		return ErrInvalidBranchTarget
	}
	*b = target
	return nil
}

// ValidateTitle returns ErrTitleTooShort when the trimmed title is under MinTitleLength characters.
func ValidateTitle(title string) error {
	if len([]rune(strings.TrimSpace(title))) < MinTitleLength {
		return ErrTitleTooShort
	}
	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.History = make([]HistoryEntry, len(t.History))
	for i, h := range t.History {
		c.History[i] = h
		if h.From != nil {
			from := *h.From
			c.History[i].From = &from
		}
	}
	c.RunSessions = make([]RunSession, len(t.RunSessions))
	for i, s := range t.RunSessions {
		c.RunSessions[i] = s
		if s.EndedAt != nil {
			ended := *s.EndedAt
			c.RunSessions[i].EndedAt = &ended
		}
		c.RunSessions[i].Logs = append([]LogEntry(nil), s.Logs...)
	}
	return &c
}
