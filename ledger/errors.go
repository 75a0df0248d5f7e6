package ledger

import (
	"errors"
	"fmt"
)

// Sentinel error kinds returned by Store operations. Callers match them
// with errors.Is; the wrapped message carries the human-readable detail.
var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateKey         = errors.New("already exists")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrReferentialIntegrity = errors.New("referenced by existing transactions")
)

// InsufficientInventoryError is returned by RecordSell when the sell
// quantity exceeds the remaining units across all lots of the instrument.
// Available reports how many units could have been sold.
type InsufficientInventoryError struct {
	Requested int64
	Available int64
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("not enough shares: requested %d, have %d", e.Requested, e.Available)
}
