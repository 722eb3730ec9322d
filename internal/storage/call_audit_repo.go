package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// CallRecord describes one external call. It never holds submitted text,
// rubrics or credentials; InputHash lets operators correlate calls instead.
type CallRecord struct {
	CallID    string
	Operation string
	Provider  string
	Model     string
	InputHash string
	Status    string
	ErrorKind string
	ErrorType string
	LatencyMS int64
}

type CallRecorder interface {
	RecordCall(ctx context.Context, rec CallRecord) error
}

// NopRecorder is used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) RecordCall(context.Context, CallRecord) error { return nil }

type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type CallAuditRepo struct {
	db Execer
}

func NewCallAuditRepo(db Execer) *CallAuditRepo {
	return &CallAuditRepo{db: db}
}

func (r *CallAuditRepo) RecordCall(ctx context.Context, rec CallRecord) error {
	if rec.CallID == "" {
		rec.CallID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
INSERT INTO external_calls(call_id, operation, provider, model, input_hash, status, error_kind, error_type, latency_ms)
VALUES ($1::uuid, $2, $3, NULLIF($4,''), NULLIF($5,''), $6, NULLIF($7,''), NULLIF($8,''), $9)`,
		rec.CallID, rec.Operation, rec.Provider, rec.Model, rec.InputHash, rec.Status, rec.ErrorKind, rec.ErrorType, rec.LatencyMS)
	if err != nil {
		return fmt.Errorf("insert external call: %w", err)
	}
	return nil
}
