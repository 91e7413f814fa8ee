package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fundingledger/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pmCols = []string{"id", "user_id", "address", "currency", "network", "status",
	"approved_by", "approved_at", "rejection_reason", "created_at", "updated_at"}

func TestPaymentMethodRepository_CreateAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPaymentMethodRepository(db)

	mock.ExpectExec("INSERT INTO payment_methods").
		WithArgs("PM1", "user-1", "TXaddr", "USDT", "TRC20", "pending", testTime, testTime).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), &models.PaymentMethod{
		ID: "PM1", UserID: "user-1", Address: "TXaddr", Currency: "USDT", Network: "TRC20",
		Status: models.StatusPending, CreatedAt: testTime, UpdatedAt: testTime,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_methods WHERE status = $1 ORDER BY created_at DESC")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(pmCols).
			AddRow("PM1", "user-1", "TXaddr", "USDT", "TRC20", "pending", nil, nil, nil, testTime, testTime))

	methods, err := repo.List(context.Background(), "", "pending")
	require.NoError(t, err)
	assert.Len(t, methods, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentMethodRepository_Dispose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPaymentMethodRepository(db)
	updateSQL := regexp.QuoteMeta("UPDATE payment_methods SET status = $1")

	t.Run("approve pending", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).
			WithArgs("approved", "admin-1", sqlmock.AnyArg(), nil, testTime, "PM1", "pending").
			WillReturnRows(sqlmock.NewRows(pmCols).
				AddRow("PM1", "user-1", "TXaddr", "USDT", "TRC20", "approved", "admin-1", testTime, nil, testTime, testTime))

		pm, err := repo.Dispose(context.Background(), "PM1", models.StatusApproved, "admin-1", nil, testTime)
		require.NoError(t, err)
		assert.Equal(t, "approved", pm.Status)
	})

	t.Run("already terminal", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("FROM payment_methods WHERE id = \\$1").
			WithArgs("PM1").
			WillReturnRows(sqlmock.NewRows(pmCols).
				AddRow("PM1", "user-1", "TXaddr", "USDT", "TRC20", "approved", "admin-1", testTime, nil, testTime, testTime))

		_, err := repo.Dispose(context.Background(), "PM1", models.StatusRejected, "admin-1", nil, testTime)
		assert.ErrorIs(t, err, ErrStaleStatus)
	})

	t.Run("unknown id", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("FROM payment_methods WHERE id = \\$1").
			WithArgs("PM404").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Dispose(context.Background(), "PM404", models.StatusRejected, "admin-1", nil, testTime)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
