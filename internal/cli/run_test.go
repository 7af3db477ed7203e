package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/testutil"
)

func TestRunLifecycleCommands(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore(newTask("t1", "Run me", domain.StatusBacklog, domain.PriorityMedium))
	container := newTestContainer(store)
	var buf bytes.Buffer

	exec := func(args ...string) error {
		root := NewRootCommand(container, "test")
		root.SetOut(&buf)
		root.SetErr(&buf)
		root.SetArgs(args)
		return root.Execute()
	}

	// Start
	require.NoError(t, exec("start", "t1"))
	task := store.Get("t1")
	assert.Equal(t, domain.StatusInProgress, task.Status)
	require.NotNil(t, task.RunningSession())
	sessionID := task.RunningSession().SessionID
	assert.Contains(t, buf.String(), "Started session "+sessionID)

	// Starting twice is rejected
	assert.ErrorIs(t, exec("start", "t1"), domain.ErrSessionRunning)

	// Log to the running session
	require.NoError(t, exec("log", "t1", "halfway", "there", "--type", "milestone"))
	task = store.Get("t1")
	logs := task.FindSession(sessionID).Logs
	require.Len(t, logs, 2, "seed entry plus the new one")
	assert.Equal(t, "Run started", logs[0].Message)
	assert.Equal(t, "halfway there", logs[1].Message)
	assert.Equal(t, domain.LogMilestone, logs[1].Type)

	// Stop
	require.NoError(t, exec("stop", "t1"))
	task = store.Get("t1")
	assert.Equal(t, domain.StatusWaitingApproval, task.Status)
	assert.False(t, task.IsRunning())

	// Logging falls back to the latest session once stopped
	require.NoError(t, exec("log", "t1", "review notes"))
	assert.Len(t, store.Get("t1").FindSession(sessionID).Logs, 3)

	// Finish
	require.NoError(t, exec("finish", "t1"))
	task = store.Get("t1")
	assert.Equal(t, domain.StatusFinished, task.Status)
	last := task.History[len(task.History)-1]
	assert.Equal(t, domain.ActorUser, last.By)
	assert.Equal(t, "approved", last.Reason)
}

func TestNewLogCommand_NoSession(t *testing.T) {
	store := testutil.NewMockTaskStore(newTask("t1", "Idle", domain.StatusBacklog, domain.PriorityMedium))
	cmd := newLogCommand(newTestContainer(store))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"t1", "hello"})

	err := cmd.Execute()

	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestNewMoveCommand(t *testing.T) {
	tests := []struct {
		wantErr    error
		name       string
		args       []string
		wantStatus domain.Status
		wantBy     domain.Actor
	}{
		{name: "forward", args: []string{"t1", "in-progress"}, wantStatus: domain.StatusInProgress, wantBy: domain.ActorUser},
		{name: "same status is recorded", args: []string{"t1", "backlog"}, wantStatus: domain.StatusBacklog, wantBy: domain.ActorUser},
		{name: "agent actor", args: []string{"t1", "finished", "--by", "agent"}, wantStatus: domain.StatusFinished, wantBy: domain.ActorAgent},
		{name: "bad status", args: []string{"t1", "doing"}, wantErr: domain.ErrInvalidStatus},
		{name: "bad actor", args: []string{"t1", "backlog", "--by", "robot"}, wantErr: domain.ErrInvalidActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			store := testutil.NewMockTaskStore(newTask("t1", "Move me", domain.StatusBacklog, domain.PriorityMedium))
			cmd := newMoveCommand(newTestContainer(store))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			// Execute
			err := cmd.Execute()

			// Assert
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Len(t, store.Get("t1").History, 1)
				return
			}
			require.NoError(t, err)
			task := store.Get("t1")
			assert.Equal(t, tt.wantStatus, task.Status)
			require.Len(t, task.History, 2)
			assert.Equal(t, tt.wantBy, task.History[1].By)
		})
	}
}

func TestNewClaimCommand(t *testing.T) {
	// Setup
	running := newTask("r1", "Already running", domain.StatusInProgress, domain.PriorityHigh)
	store := testutil.NewMockTaskStore(
		running,
		newTask("b1", "Medium backlog", domain.StatusBacklog, domain.PriorityMedium),
		newTask("b2", "High backlog", domain.StatusBacklog, domain.PriorityHigh),
	)
	container := newTestContainer(store)

	cmd := newClaimCommand(container)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-o", "json"})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	var got domain.Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "b2", got.ID)
	assert.Equal(t, domain.StatusBacklog, store.Get("b2").Status, "claim does not mutate")
	assert.Zero(t, store.UpdateCalls)
}

func TestNewClaimCommand_Empty(t *testing.T) {
	cmd := newClaimCommand(newTestContainer(testutil.NewMockTaskStore()))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--priority", "low"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "No backlog task available", strings.TrimSpace(buf.String()))
}

func TestNewBoardCommand(t *testing.T) {
	// Setup
	store := testutil.NewMockTaskStore(
		newTask("aaaa-1", "Write docs", domain.StatusBacklog, domain.PriorityLow),
		newTask("bbbb-2", "Ship it", domain.StatusFinished, domain.PriorityHigh),
	)
	cmd := newBoardCommand(newTestContainer(store))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	// Execute
	err := cmd.Execute()

	// Assert
	require.NoError(t, err)
	out := buf.String()
	for _, title := range []string{"Backlog (1)", "In Progress (0)", "Waiting Approval (0)", "Finished (1)"} {
		assert.Contains(t, out, title)
	}
	assert.Contains(t, out, "Write docs")
	assert.Contains(t, out, "aaaa")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
