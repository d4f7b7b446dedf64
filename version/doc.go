// Package version reports the build of the datafixture binary.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/datafixture/version.Version=1.0.0 \
//	  -X github.com/kbukum/datafixture/version.BuildTime=2026-01-02T15:04:05Z" ./cmd/datafixture
//
// Unset values fall back to the VCS stamp embedded by the Go toolchain.
package version
