// Package errkind enumerates the sentinel errors shared across the exchange
// core, following the teacher's one-sentinel-per-fault convention (see
// core/errors/stake.go in the pack this was grounded on).
package errkind

import stderrors "errors"

var (
	ErrBadArgument         = stderrors.New("exchange: bad argument")
	ErrUnauthorized        = stderrors.New("exchange: unauthorized")
	ErrPoolNotFound        = stderrors.New("exchange: pool not found")
	ErrTokenNotInPool      = stderrors.New("exchange: token not in pool")
	ErrTokenNotRegistered  = stderrors.New("exchange: token not registered")
	ErrInsufficientBalance = stderrors.New("exchange: insufficient balance")
	ErrSlippageExceeded    = stderrors.New("exchange: slippage exceeded")
	ErrMathConverge        = stderrors.New("exchange: math did not converge")
	ErrOverflow            = stderrors.New("exchange: overflow")
	ErrInvariantViolation  = stderrors.New("exchange: invariant violation")
	ErrInvalidState        = stderrors.New("exchange: invalid state")
)

// Is reports whether err is, or wraps, target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
