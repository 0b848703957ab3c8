// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// OS thread scheduling facility for hioload-thread: thread ids, priority
// classes, thread naming and CPU affinity behind api.Platform, with
// per-platform implementations selected by build tags (Linux/Windows) and
// a no-op fallback elsewhere.
package concurrency
