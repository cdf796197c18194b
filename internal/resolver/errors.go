package resolver

import (
	"fmt"

	"github.com/sourcepack/sourcepack/internal/errors"
)

// PathNotFoundError is returned when a resolution path does not exist in the
// bound tree container.
type PathNotFoundError struct {
	Path string
}

func (e PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q does not exist in the resolved tree", e.Path)
}

// NewPathNotFoundError creates a new PathNotFoundError for the given path.
func NewPathNotFoundError(path string) error {
	return errors.New(PathNotFoundError{Path: path})
}

// TypeInferenceError is returned when a file path matches none of the type
// inference strategies.
type TypeInferenceError struct {
	Path string
}

func (e TypeInferenceError) Error() string {
	return fmt.Sprintf("could not infer a metadata type for %q", e.Path)
}

// NewTypeInferenceError creates a new TypeInferenceError for the given path.
func NewTypeInferenceError(path string) error {
	return errors.New(TypeInferenceError{Path: path})
}
