package fixture

import (
	"fmt"
	"strings"

	"github.com/kbukum/datafixture/errors"
)

// NoFixturesFoundError reports that discovery or selection produced nothing.
type NoFixturesFoundError struct {
	Paths []string
}

func (e *NoFixturesFoundError) Error() string {
	var b strings.Builder
	b.WriteString("could not find any fixtures to load in:\n")
	if len(e.Paths) > 0 {
		b.WriteString("\n")
	}
	for _, p := range e.Paths {
		b.WriteString("- ")
		b.WriteString(p)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ErrorCode returns errors.ErrCodeNoFixturesFound.
func (e *NoFixturesFoundError) ErrorCode() errors.ErrorCode { return errors.ErrCodeNoFixturesFound }

// DuplicateFixtureError reports two definitions with the same identifier.
type DuplicateFixtureError struct {
	ID     string
	First  string
	Second string
}

func (e *DuplicateFixtureError) Error() string {
	return fmt.Sprintf("fixture %q defined twice: %s and %s", e.ID, e.First, e.Second)
}

// ErrorCode returns errors.ErrCodeDuplicateFixture.
func (e *DuplicateFixtureError) ErrorCode() errors.ErrorCode { return errors.ErrCodeDuplicateFixture }

// InvalidFixtureError reports a definition that could not be parsed or built.
// Document is the zero-based index inside a multi-document file.
type InvalidFixtureError struct {
	Path     string
	Document int
	Cause    error
}

func (e *InvalidFixtureError) Error() string {
	if e.Document > 0 {
		return fmt.Sprintf("invalid fixture in %s (document %d): %v", e.Path, e.Document+1, e.Cause)
	}
	return fmt.Sprintf("invalid fixture in %s: %v", e.Path, e.Cause)
}

func (e *InvalidFixtureError) Unwrap() error { return e.Cause }

// ErrorCode returns errors.ErrCodeInvalidFixture.
func (e *InvalidFixtureError) ErrorCode() errors.ErrorCode { return errors.ErrCodeInvalidFixture }

// InvalidPathError reports a search path that is neither a file nor a directory.
type InvalidPathError struct {
	Path  string
	Cause error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("fixture path %q is neither a file nor a directory", e.Path)
}

func (e *InvalidPathError) Unwrap() error { return e.Cause }

// ErrorCode returns errors.ErrCodeInvalidPath.
func (e *InvalidPathError) ErrorCode() errors.ErrorCode { return errors.ErrCodeInvalidPath }

// GroupNotFoundError reports a group no fixture declares.
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("no fixture belongs to group %q", e.Group)
}

// ErrorCode returns errors.ErrCodeGroupNotFound.
func (e *GroupNotFoundError) ErrorCode() errors.ErrorCode { return errors.ErrCodeGroupNotFound }

// UnresolvedDependencyError reports a dependency that is not in the set.
type UnresolvedDependencyError struct {
	Fixture    string
	Dependency string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("fixture %q depends on %q, which was not found", e.Fixture, e.Dependency)
}

// ErrorCode returns errors.ErrCodeUnresolvedDependency.
func (e *UnresolvedDependencyError) ErrorCode() errors.ErrorCode {
	return errors.ErrCodeUnresolvedDependency
}

// CyclicDependencyError reports a dependency cycle. Cycle starts and ends
// with the same fixture.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "circular fixture dependency: " + strings.Join(e.Cycle, " -> ")
}

// ErrorCode returns errors.ErrCodeCyclicDependency.
func (e *CyclicDependencyError) ErrorCode() errors.ErrorCode { return errors.ErrCodeCyclicDependency }
