package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/cursor-kanban/internal/domain"
	"github.com/runoshun/cursor-kanban/internal/testutil"
)

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	store  *testutil.MockTaskStore
	clock  *testutil.MockClock
	ids    *testutil.SequenceIDs
	logger *testutil.MockLogger
}

func newTestDeps() *testDeps {
	return &testDeps{
		store:  testutil.NewMockTaskStore(),
		clock:  &testutil.MockClock{NowTime: testNow, Step: time.Second},
		ids:    &testutil.SequenceIDs{Prefix: "id-"},
		logger: &testutil.MockLogger{},
	}
}

func (d *testDeps) createTask(t *testing.T, in CreateTaskInput) *domain.Task {
	t.Helper()
	out, err := NewCreateTask(d.store, d.ids, d.clock, d.logger).Execute(context.Background(), in)
	require.NoError(t, err)
	return out.Task
}

func (d *testDeps) startRun(t *testing.T, taskID string) string {
	t.Helper()
	out, err := NewStartRun(d.store, d.ids, d.clock, d.logger).Execute(context.Background(), StartRunInput{TaskID: taskID})
	require.NoError(t, err)
	return out.SessionID
}

func ptr[T any](v T) *T {
	return &v
}
