package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		expect bool
	}{
		{"backlog -> in_progress", StatusBacklog, StatusInProgress, true},
		{"backlog -> finished", StatusBacklog, StatusFinished, false},
		{"in_progress -> waiting_approval", StatusInProgress, StatusWaitingApproval, true},
		{"in_progress -> backlog", StatusInProgress, StatusBacklog, false},
		{"waiting_approval -> in_progress", StatusWaitingApproval, StatusInProgress, true},
		{"waiting_approval -> finished", StatusWaitingApproval, StatusFinished, true},
		{"finished -> backlog", StatusFinished, StatusBacklog, false},
		{"unknown -> backlog", Status("unknown"), StatusBacklog, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.Equal(t, s == StatusFinished, s.IsTerminal(), s)
	}
}

func TestStatus_Display(t *testing.T) {
	assert.Equal(t, "Backlog", StatusBacklog.Display())
	assert.Equal(t, "In Progress", StatusInProgress.Display())
	assert.Equal(t, "Waiting Approval", StatusWaitingApproval.Display())
	assert.Equal(t, "Finished", StatusFinished.Display())
	assert.Equal(t, "weird", Status("weird").Display())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"BACKLOG", StatusBacklog, false},
		{"backlog", StatusBacklog, false},
		{"in-progress", StatusInProgress, false},
		{"waiting approval", StatusWaitingApproval, false},
		{" finished ", StatusFinished, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategoryAndPriority(t *testing.T) {
	c, err := ParseCategory("ui")
	require.NoError(t, err)
	assert.Equal(t, CategoryUI, c)

	_, err = ParseCategory("DB")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestPriority_Rank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Less(t, PriorityLow.Rank(), Priority("").Rank())
}

func TestParseActor(t *testing.T) {
	a, err := ParseActor("Agent")
	require.NoError(t, err)
	assert.Equal(t, ActorAgent, a)

	_, err = ParseActor("robot")
	assert.ErrorIs(t, err, ErrInvalidActor)
}

func TestParseLogType(t *testing.T) {
	l, err := ParseLogType("")
	require.NoError(t, err)
	assert.Equal(t, LogInfo, l)

	l, err = ParseLogType("MILESTONE")
	require.NoError(t, err)
	assert.Equal(t, LogMilestone, l)

	_, err = ParseLogType("debug")
	assert.ErrorIs(t, err, ErrInvalidLogType)
}
