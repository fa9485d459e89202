// Package storage defines the Storage interface for the console's own
// data: the audit log of mutations issued against the lending backend.
//
// Handlers depend only on this interface, so tests pass an in-memory
// fake and production passes the SQLite implementation.
package storage

import (
	"context"

	"github.com/aanand-mishra/tool-lending-admin/internal/types"
)

type Storage interface {
	// RecordAudit inserts an entry and returns its generated id.
	// A zero CreatedAt is replaced with the current time.
	RecordAudit(ctx context.Context, entry types.AuditEntry) (int64, error)

	// ListAudit returns at most limit entries, newest first.
	// Returns an empty slice (not nil) when the log is empty.
	ListAudit(ctx context.Context, limit int) ([]types.AuditEntry, error)

	Close() error
}
