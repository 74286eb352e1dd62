package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	mysqlDeadlock        = 1213
	mysqlLockWaitTimeout = 1205

	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsLockConflict reports whether err is a deadlock or serialization failure
// that aborted the transaction. The statement can be retried in a new
// transaction. gorm's TranslateError leaves these untouched.
func IsLockConflict(err error) bool {
	if err == nil {
		return false
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
