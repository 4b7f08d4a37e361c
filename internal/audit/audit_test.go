package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
)

func TestRecordSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO admin_audit_log").
		WithArgs("admin-1", "payout.create", "payment_split", "split-1", "corr-1", "success", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	recorder := NewSQLRecorder(db)
	ctx := logger.ContextWithCorrelationID(context.Background(), "corr-1")
	recorder.Record(ctx, Entry{
		ActorID:    "admin-1",
		Action:     "payout.create",
		Resource:   "payment_split",
		ResourceID: "split-1",
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailureCarriesErrorMessage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO admin_audit_log").
		WithArgs("admin-1", "split.mark_ready", "payment_split", "split-2", "", "failure", "split já pago", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	recorder := NewSQLRecorder(db)
	recorder.Record(context.Background(), Entry{
		ActorID:    "admin-1",
		Action:     "split.mark_ready",
		Resource:   "payment_split",
		ResourceID: "split-2",
		Err:        errors.New("split já pago"),
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWriteFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO admin_audit_log").
		WillReturnError(errors.New("connection reset"))

	recorder := NewSQLRecorder(db)
	// must not panic or propagate: audit is best effort
	recorder.Record(context.Background(), Entry{
		ActorID:    "admin-1",
		Action:     "payout.retry",
		Resource:   "payout",
		ResourceID: "po-1",
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
