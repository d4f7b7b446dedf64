package executor

import (
	"fmt"

	"github.com/kbukum/datafixture/errors"
)

// FixtureApplicationError reports a fixture that failed while being applied.
type FixtureApplicationError struct {
	Fixture string
	Index   int
	Cause   error
}

func (e *FixtureApplicationError) Error() string {
	return fmt.Sprintf("fixture %q failed: %v", e.Fixture, e.Cause)
}

func (e *FixtureApplicationError) Unwrap() error { return e.Cause }

// ErrorCode returns errors.ErrCodeFixtureApplication.
func (e *FixtureApplicationError) ErrorCode() errors.ErrorCode {
	return errors.ErrCodeFixtureApplication
}
