// Package testutil defines the TestComponent contract for components that
// can be reset and snapshotted between test cases, and a helper that ties
// their lifecycle to a test.
package testutil
