package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// BoardStateOutput contains the grouped board.
type BoardStateOutput struct {
	Board domain.BoardState
}

// BoardState is the use case for building the four-column board view.
type BoardState struct {
	store     domain.TaskStore
	logWindow int
}

// NewBoardState creates a new BoardState use case.
func NewBoardState(store domain.TaskStore, logWindow int) *BoardState {
	return &BoardState{store: store, logWindow: logWindow}
}

// Execute loads the collection and groups it by status.
func (uc *BoardState) Execute(ctx context.Context) (*BoardStateOutput, error) {
	tasks, err := uc.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("board state: %w", err)
	}
	return &BoardStateOutput{Board: domain.NewBoardState(tasks, uc.logWindow)}, nil
}
