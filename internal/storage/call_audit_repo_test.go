package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecer struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExecer) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = sql
	f.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func TestCallAuditRepoAssignsCallID(t *testing.T) {
	ex := &fakeExecer{}
	repo := NewCallAuditRepo(ex)
	err := repo.RecordCall(context.Background(), CallRecord{Operation: "grade", Provider: "gemini", Model: "gemini-2.0-flash", Status: "ok", LatencyMS: 12})
	require.NoError(t, err)
	require.Len(t, ex.args, 9)
	_, perr := uuid.Parse(ex.args[0].(string))
	assert.NoError(t, perr)
	assert.Equal(t, "grade", ex.args[1])
	assert.Equal(t, int64(12), ex.args[8])
	assert.Contains(t, ex.sql, "INSERT INTO external_calls")
}

func TestCallAuditRepoWrapsError(t *testing.T) {
	repo := NewCallAuditRepo(&fakeExecer{err: errors.New("relation does not exist")})
	err := repo.RecordCall(context.Background(), CallRecord{CallID: uuid.NewString(), Operation: "feedback", Provider: "mock", Status: "failed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert external call")
}

func TestNopRecorder(t *testing.T) {
	var r CallRecorder = NopRecorder{}
	assert.NoError(t, r.RecordCall(context.Background(), CallRecord{}))
}
