// Package executor runs an ordered fixture plan against the store.
//
// A run optionally purges the store, then applies each fixture in plan
// order, reporting progress after every fixture. By default the whole run
// is one transaction, so any failure leaves the store as it was.
package executor
