package repository

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var testTime = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func fundingRows() *sqlmock.Rows {
	return sqlmock.NewRows(fundingColumnNames)
}

func ledgerRows() *sqlmock.Rows {
	return sqlmock.NewRows(ledgerColumnNames)
}

func pendingDepositRow(rows *sqlmock.Rows, id, amount string, createdAt time.Time) *sqlmock.Rows {
	return rows.AddRow(id, "user-1", "acc-1", amount, "crypto", "USD", "pending",
		nil, nil, nil, nil, createdAt, createdAt)
}
