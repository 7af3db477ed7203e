package app

import (
	"github.com/google/uuid"

	"github.com/runoshun/cursor-kanban/internal/domain"
)

// Ensure UUIDGenerator implements domain.IDGenerator.
var _ domain.IDGenerator = UUIDGenerator{}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}
