package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type sqlState struct {
	code  ErrorCode
	retry bool
}

// SQLSTATEs the stats tables can realistically raise; anything else is
// ErrorCodeDB
var sqlStates = map[string]sqlState{
	"23505": {code: ErrorCodeDuplicateKey},
	"23503": {code: ErrorCodeInvalidArgument},
	"23502": {code: ErrorCodeValidation},
	"23514": {code: ErrorCodeValidation},
	"22001": {code: ErrorCodeInvalidArgument},
	"22P02": {code: ErrorCodeInvalidArgument},
	"40001": {code: ErrorCodeDB, retry: true},
	"40P01": {code: ErrorCodeDB, retry: true},
	"55P03": {code: ErrorCodeDB, retry: true},
	"57014": {code: ErrorCodeTimeout},
	"25006": {code: ErrorCodeUnavailable},
	"57P03": {code: ErrorCodeUnavailable},
}

func pgErrorOf(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// DBErrorCode maps a postgres error to an ErrorCode; ok is false when err
// carries no *pgconn.PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pe, ok := pgErrorOf(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if st, known := sqlStates[pe.Code]; known {
		return st.code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code and msg, naming the column as
// the field when postgres reports one. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		code = ErrorCodeTimeout
	}
	out := Wrap(err, code, msg)
	if pe, ok := pgErrorOf(err); ok && strings.TrimSpace(pe.ColumnName) != "" {
		out = WithField(out, pe.ColumnName)
	}
	return out
}

// IsRetryable reports contention errors a fresh transaction may get past.
// Cancellations never are
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgErrorOf(err); ok {
		return sqlStates[pe.Code].retry
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "commit unexpectedly resulted in rollback") ||
		strings.Contains(msg, "could not serialize access")
}
