package version

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommit is returned when a commit hash is not a short,
	// 7-character hexadecimal hash
	ErrInvalidCommit = errors.New("invalid commit hash")

	// ErrNoCommitFound is returned when neither the primary nor the fallback
	// branch yielded a commit for a workbook
	ErrNoCommitFound = errors.New("no commit found")

	// ErrMalformedVersion is returned when a version string does not carry a
	// branch+commit local segment
	ErrMalformedVersion = errors.New("malformed version")
)

// IsInvalidCommitError checks if the error is or wraps ErrInvalidCommit
func IsInvalidCommitError(err error) bool {
	return errors.Is(err, ErrInvalidCommit)
}

// IsNoCommitFoundError checks if the error is or wraps ErrNoCommitFound
func IsNoCommitFoundError(err error) bool {
	return errors.Is(err, ErrNoCommitFound)
}

// IsMalformedVersionError checks if the error is or wraps ErrMalformedVersion
func IsMalformedVersionError(err error) bool {
	return errors.Is(err, ErrMalformedVersion)
}

// NewInvalidCommitError creates an invalid commit error naming the offending hash
func NewInvalidCommitError(commit string) error {
	return fmt.Errorf("%w: %q (expected a short, 7 char hex hash)", ErrInvalidCommit, commit)
}

// NewNoCommitFoundError creates a no commit found error naming the workbook
func NewNoCommitFoundError(workbook string) error {
	return fmt.Errorf("%w for workbook %s", ErrNoCommitFound, workbook)
}

// NewMalformedVersionError creates a malformed version error with the raw version
func NewMalformedVersionError(version string) error {
	return fmt.Errorf("%w: %q", ErrMalformedVersion, version)
}
