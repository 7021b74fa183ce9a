package reservation

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrForbiddenRole   ErrCode = "FORBIDDEN_ROLE"
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrLotInactive     ErrCode = "LOT_INACTIVE"
	ErrInvalidInterval ErrCode = "INVALID_INTERVAL"
	ErrSelfOverlap     ErrCode = "SELF_OVERLAP"
	ErrLotFull         ErrCode = "LOT_FULL"
	ErrAlreadyTerminal ErrCode = "ALREADY_TERMINAL"
	ErrForbidden       ErrCode = "FORBIDDEN"

	// Transient lock/serialization conflicts; the caller may retry.
	ErrTryAgain ErrCode = "TRY_AGAIN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code; empty for unexpected errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// mapTransient converts lock-wait and serialization failures into a
// retryable coded error. Anything else passes through unchanged and
// surfaces as an internal fault at the boundary.
func mapTransient(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return makeErr(ErrTryAgain)
		}
	}
	return err
}
