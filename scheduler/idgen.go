package scheduler

import "github.com/google/uuid"

// IDGenerator returns a fresh unique identifier for each accepted job.
//
// The generator is optional. If not set, UUIDGenerator is used.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random UUID strings. It is the default
// IDGenerator.
type UUIDGenerator struct{}

// NewID implements the IDGenerator interface.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}
