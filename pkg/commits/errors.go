package commits

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteQuery is returned when the batched commit query comes back
	// with a non-success status
	ErrRemoteQuery = errors.New("remote commit query failed")

	// ErrNoBranchFound is returned when neither the primary nor the fallback
	// branch exists for a workbook
	ErrNoBranchFound = errors.New("no branch found")

	// ErrBadWorkbook is returned when a workbook identifier is not of the
	// "org/repo" form
	ErrBadWorkbook = errors.New("bad workbook identifier")
)

// IsRemoteQueryError checks if the error is or wraps ErrRemoteQuery
func IsRemoteQueryError(err error) bool {
	return errors.Is(err, ErrRemoteQuery)
}

// IsNoBranchFoundError checks if the error is or wraps ErrNoBranchFound
func IsNoBranchFoundError(err error) bool {
	return errors.Is(err, ErrNoBranchFound)
}

// IsBadWorkbookError checks if the error is or wraps ErrBadWorkbook
func IsBadWorkbookError(err error) bool {
	return errors.Is(err, ErrBadWorkbook)
}

// NewRemoteQueryError creates a remote query error carrying the response
// status and raw body for diagnosis
func NewRemoteQueryError(status int, body string) error {
	return fmt.Errorf("%w with status code %d: %s", ErrRemoteQuery, status, body)
}

// NewNoBranchFoundError creates a no branch found error naming the workbook
func NewNoBranchFoundError(workbook string) error {
	return fmt.Errorf("%w: neither primary nor fallback branch found for %s", ErrNoBranchFound, workbook)
}

// NewBadWorkbookError creates a bad workbook error naming the identifier
func NewBadWorkbookError(workbook string) error {
	return fmt.Errorf("%w: %q (expected \"org/repo\")", ErrBadWorkbook, workbook)
}
