package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"three chars", "abc", false},
		{"padded three chars", "  abc  ", false},
		{"two chars", "ab", true},
		{"whitespace only", "     ", true},
		{"multibyte", "日本語", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTitleTooShort)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBranchTarget_Validate(t *testing.T) {
	assert.NoError(t, CurrentBranch().Validate())
	assert.NoError(t, BranchTarget{}.Validate())
	assert.NoError(t, NewBranch("feature/x").Validate())
	assert.ErrorIs(t, NewBranch("   ").Validate(), ErrBranchNameRequired)
	assert.ErrorIs(t, BranchTarget{Type: "detached"}.Validate(), ErrInvalidBranchTarget)
}

func TestBranchTarget_Normalize(t *testing.T) {
	assert.Equal(t, CurrentBranch(), BranchTarget{Type: BranchCurrent, Name: "ignored"}.Normalize())
	assert.Equal(t, NewBranch("feat"), NewBranch("  feat ").Normalize())
	assert.Equal(t, "current", CurrentBranch().String())
	assert.Equal(t, "new:feat", NewBranch("feat").String())
}

func TestBranchTarget_UnmarshalJSON(t *testing.T) {
	var b BranchTarget
	require.NoError(t, json.Unmarshal([]byte(`{"type":"new","name":"x"}`), &b))
	assert.Equal(t, NewBranch("x"), b)

	require.NoError(t, json.Unmarshal([]byte(`{}`), &b))
	assert.Equal(t, CurrentBranch(), b)

	err := json.Unmarshal([]byte(`{"type":"other"}`), &b)
	assert.ErrorIs(t, err, ErrInvalidBranchTarget)
}

func TestTask_Transition(t *testing.T) {
	// Setup
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{ID: "t1", Status: StatusBacklog, UpdatedAt: created}
	at := created.Add(time.Minute)

	// Execute
	task.Transition(StatusInProgress, ActorAgent, "picked up", "s1", at)

	// Assert
	require.Len(t, task.History, 1)
	h := task.History[0]
	require.NotNil(t, h.From)
	assert.Equal(t, StatusBacklog, *h.From)
	assert.Equal(t, StatusInProgress, h.To)
	assert.Equal(t, ActorAgent, h.By)
	assert.Equal(t, "picked up", h.Reason)
	assert.Equal(t, "s1", h.SessionID)
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, at, task.UpdatedAt)
}

func TestTask_Sessions(t *testing.T) {
	ended := time.Now()
	task := &Task{
		RunSessions: []RunSession{
			{SessionID: "a", Status: SessionStopped, EndedAt: &ended},
			{SessionID: "b", Status: SessionRunning},
		},
	}

	require.NotNil(t, task.RunningSession())
	assert.Equal(t, "b", task.RunningSession().SessionID)
	assert.True(t, task.IsRunning())
	assert.Equal(t, "a", task.FindSession("a").SessionID)
	assert.Nil(t, task.FindSession("zzz"))
	assert.Equal(t, "b", task.LatestSession().SessionID)

	empty := &Task{}
	assert.Nil(t, empty.RunningSession())
	assert.Nil(t, empty.LatestSession())
	assert.False(t, empty.IsRunning())
}

func TestTask_Clone(t *testing.T) {
	// Setup
	from := StatusBacklog
	ended := time.Now()
	orig := &Task{
		ID:      "t1",
		History: []HistoryEntry{{From: &from, To: StatusInProgress}},
		RunSessions: []RunSession{
			{SessionID: "s", EndedAt: &ended, Logs: []LogEntry{{Message: "one"}}},
		},
	}

	// Execute
	c := orig.Clone()
	*c.History[0].From = StatusFinished
	c.RunSessions[0].Logs[0].Message = "changed"
	c.RunSessions[0].Logs = append(c.RunSessions[0].Logs, LogEntry{Message: "two"})
	c.History = append(c.History, HistoryEntry{To: StatusFinished})

	// Assert
	assert.Equal(t, StatusBacklog, *orig.History[0].From)
	assert.Equal(t, "one", orig.RunSessions[0].Logs[0].Message)
	assert.Len(t, orig.RunSessions[0].Logs, 1)
	assert.Len(t, orig.History, 1)
	assert.NotSame(t, orig.RunSessions[0].EndedAt, c.RunSessions[0].EndedAt)
}

func TestTask_JSONFieldNames(t *testing.T) {
	task := &Task{
		ID:           "t1",
		Title:        "Task",
		Category:     CategoryCore,
		Priority:     PriorityLow,
		Status:       StatusBacklog,
		BranchTarget: NewBranch("feat"),
		History:      []HistoryEntry{{To: StatusBacklog, By: ActorSystem}},
		RunSessions:  []RunSession{},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "title", "category", "priority", "branchTarget", "status", "createdAt", "updatedAt", "history", "runSessions"} {
		assert.Contains(t, raw, key)
	}
	history := raw["history"].([]any)[0].(map[string]any)
	assert.Nil(t, history["from"])
	assert.Equal(t, "system", history["by"])
}

func TestHistoryEntry_IsHappyPath(t *testing.T) {
	status := func(s Status) *Status { return &s }

	tests := []struct {
		name  string
		entry HistoryEntry
		want  bool
	}{
		{name: "creation", entry: HistoryEntry{To: StatusBacklog}, want: true},
		{name: "start", entry: HistoryEntry{From: status(StatusBacklog), To: StatusInProgress}, want: true},
		{name: "rework", entry: HistoryEntry{From: status(StatusWaitingApproval), To: StatusInProgress}, want: true},
		{name: "same status", entry: HistoryEntry{From: status(StatusBacklog), To: StatusBacklog}, want: true},
		{name: "skip ahead", entry: HistoryEntry{From: status(StatusBacklog), To: StatusFinished}, want: false},
		{name: "reopen", entry: HistoryEntry{From: status(StatusFinished), To: StatusBacklog}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.IsHappyPath())
		})
	}
}
