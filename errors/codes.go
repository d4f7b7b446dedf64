package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Discovery errors
const (
	// ErrCodeNoFixturesFound indicates discovery produced an empty fixture set.
	ErrCodeNoFixturesFound ErrorCode = "NO_FIXTURES_FOUND"
	// ErrCodeDuplicateFixture indicates two distinct definitions share an identifier.
	ErrCodeDuplicateFixture ErrorCode = "DUPLICATE_FIXTURE"
	// ErrCodeInvalidFixture indicates a fixture definition could not be parsed or built.
	ErrCodeInvalidFixture ErrorCode = "INVALID_FIXTURE"
	// ErrCodeInvalidPath indicates a search path is neither a file nor a directory.
	ErrCodeInvalidPath ErrorCode = "INVALID_PATH"
	// ErrCodeGroupNotFound indicates a requested group matched nothing.
	ErrCodeGroupNotFound ErrorCode = "GROUP_NOT_FOUND"
)

// Ordering errors
const (
	// ErrCodeUnresolvedDependency indicates a declared dependency is not in the set.
	ErrCodeUnresolvedDependency ErrorCode = "UNRESOLVED_DEPENDENCY"
	// ErrCodeCyclicDependency indicates the dependency graph contains a cycle.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
)

// Execution errors
const (
	// ErrCodePurgeFailed indicates a table could not be purged.
	ErrCodePurgeFailed ErrorCode = "PURGE_FAILED"
	// ErrCodeFixtureApplication indicates a fixture failed while being applied.
	ErrCodeFixtureApplication ErrorCode = "FIXTURE_APPLICATION_FAILED"
	// ErrCodeCanceled indicates the run was canceled before it finished.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates the loaded configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	// ErrCodeConnectionFailed indicates the database could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
)

// Process exit codes reported by the command-line boundary.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNoFixtures   = 3
	ExitDependency   = 4
	ExitPurge        = 5
	ExitApplication  = 6
)

var exitCodes = map[ErrorCode]int{
	ErrCodeNoFixturesFound:      ExitNoFixtures,
	ErrCodeGroupNotFound:        ExitNoFixtures,
	ErrCodeDuplicateFixture:     ExitInvalidInput,
	ErrCodeInvalidFixture:       ExitInvalidInput,
	ErrCodeInvalidPath:          ExitInvalidInput,
	ErrCodeInvalidInput:         ExitInvalidInput,
	ErrCodeInvalidConfig:        ExitInvalidInput,
	ErrCodeUnresolvedDependency: ExitDependency,
	ErrCodeCyclicDependency:     ExitDependency,
	ErrCodePurgeFailed:          ExitPurge,
	ErrCodeFixtureApplication:   ExitApplication,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeDatabaseError:    true,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// ExitCodeFor returns the process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitFailure
}
