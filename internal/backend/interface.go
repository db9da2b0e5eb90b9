// Package backend selects and wires the persistence layer from config.
package backend

import (
	"context"

	"courtsplit/internal/amqp"
	"courtsplit/internal/storage"
)

// CleanupFunc releases the backend's resources on shutdown.
type CleanupFunc func() error

// Result contains the wired store, the optional AMQP client and a cleanup
// function.
type Result struct {
	Store      storage.Store
	AMQPClient *amqp.Client
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Memory backend specific: optional fixed-roster seed file.
	RosterFile string
}

// Type names a storage backend.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
