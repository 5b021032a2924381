package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactNotFound is returned when a resolved requirement has no
	// built artifact in the local index
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrMetadataNotFound is returned when a wheel carries no dist-info
	// metadata file
	ErrMetadataNotFound = errors.New("artifact metadata not found")
)

// IsArtifactNotFoundError checks if the error is or wraps ErrArtifactNotFound
func IsArtifactNotFoundError(err error) bool {
	return errors.Is(err, ErrArtifactNotFound)
}

// IsMetadataNotFoundError checks if the error is or wraps ErrMetadataNotFound
func IsMetadataNotFoundError(err error) bool {
	return errors.Is(err, ErrMetadataNotFound)
}

// NewArtifactNotFoundError creates an artifact not found error naming the
// wheel path the requirement mapped to
func NewArtifactNotFoundError(requirement, path string) error {
	return fmt.Errorf("%w for %s (expected %s)", ErrArtifactNotFound, requirement, path)
}

// NewMetadataNotFoundError creates a metadata not found error for a wheel
func NewMetadataNotFoundError(path string) error {
	return fmt.Errorf("%w in %s", ErrMetadataNotFound, path)
}
