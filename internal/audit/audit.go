package audit

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
)

// Entry is one admin mutation in the trail. The Err field carries the
// mutation's outcome; it is flattened into outcome + error_message columns.
type Entry struct {
	ActorID    string
	Action     string
	Resource   string
	ResourceID string
	Err        error
}

// Recorder records admin mutations. Recording is best effort everywhere: an
// audit failure is logged and never fails the mutation it describes.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Nop discards entries. Used when the audit database is not configured.
type Nop struct{}

// Record implements Recorder
func (Nop) Record(context.Context, Entry) {}

const insertQuery = `
	INSERT INTO admin_audit_log
		(actor_id, action, resource, resource_id, correlation_id, outcome, error_message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// SQLRecorder writes the trail to Postgres
type SQLRecorder struct {
	db *sql.DB
}

// NewSQLRecorder builds a recorder over an open database handle
func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

// Record implements Recorder
func (r *SQLRecorder) Record(ctx context.Context, entry Entry) {
	outcome := "success"
	var errorMessage sql.NullString
	if entry.Err != nil {
		outcome = "failure"
		errorMessage = sql.NullString{String: entry.Err.Error(), Valid: true}
	}

	correlationID := logger.CorrelationIDFromContext(ctx)

	_, err := r.db.ExecContext(ctx, insertQuery,
		entry.ActorID,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		correlationID,
		outcome,
		errorMessage,
		time.Now().UTC(),
	)
	if err != nil {
		logger.WithContext(ctx).Warn("audit write failed",
			zap.String("action", entry.Action),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
	}
}
