package ledger

import (
	"errors"
	"fmt"
)

// Rejection kinds. Match with errors.Is.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNegativeBalance     = errors.New("negative balance")
	ErrInUse               = errors.New("still referenced by transactions")
	ErrInvalid             = errors.New("invalid input")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Rejection is a refused operation. Nothing was mutated; Message is meant for
// the user.
type Rejection struct {
	Kind    error
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

func reject(kind error, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a Rejection (as opposed to a store or
// encoding failure).
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
