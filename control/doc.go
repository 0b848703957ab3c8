// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for hioload-thread.
//
// Provides concurrent-safe state handling primitives including:
//   - a dynamic config store with reload listeners and typed accessors
//   - HCL thread profiles (named creation parameters)
//   - Prometheus collectors for thread lifecycle and priority events
//   - debug probe registration for live handle snapshots
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
