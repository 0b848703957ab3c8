// Package api
// Author: momentics@gmail.com
//
// CPU affinity and OS thread scheduling contracts.

package api

import (
	"fmt"
	"strconv"
	"strings"
)

// Affinity names a processor a thread should prefer. Platforms treat it as
// a hint; the zero value means "any processor".
type Affinity struct {
	// Specified is false for "any processor"; requests are then skipped.
	Specified bool
	// Group is the processor group (Windows); 0 elsewhere.
	Group uint8
	// ID is the logical processor index within the group.
	ID uint32
}

// AffinityAny matches any processor in the system.
func AffinityAny() Affinity { return Affinity{} }

// AffinityCore requests logical processor id in group 0.
func AffinityCore(id int) Affinity {
	if id < 0 {
		return Affinity{}
	}
	return Affinity{Specified: true, ID: uint32(id)}
}

func (a Affinity) String() string {
	if !a.Specified {
		return "any"
	}
	if a.Group != 0 {
		return fmt.Sprintf("%d:%d", a.Group, a.ID)
	}
	return strconv.FormatUint(uint64(a.ID), 10)
}

// ParseAffinity accepts "any", "" (any), "<id>" or "<group>:<id>".
func ParseAffinity(s string) (Affinity, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "any") {
		return Affinity{}, nil
	}
	group, id := "0", s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		group, id = s[:i], s[i+1:]
	}
	g, err := strconv.ParseUint(group, 10, 7)
	if err != nil {
		return Affinity{}, NewError(ErrCodeInvalidArgument, "bad affinity group").WithContext("value", s)
	}
	n, err := strconv.ParseUint(id, 10, 24)
	if err != nil {
		return Affinity{}, NewError(ErrCodeInvalidArgument, "bad affinity id").WithContext("value", s)
	}
	return Affinity{Specified: true, Group: uint8(g), ID: uint32(n)}, nil
}

// Platform is the OS scheduling facility consumed by thread handles.
// Every method is best effort: an error is reported for diagnostics only and
// callers must treat it as a no-op.
type Platform interface {
	// CurrentThreadID returns the OS id of the calling (locked) thread.
	CurrentThreadID() uint64
	// SetCurrentThreadName labels the calling thread.
	SetCurrentThreadName(name string) error
	// SetPriority applies a priority class to the thread with OS id tid.
	SetPriority(tid uint64, class PriorityClass) error
	// SetAffinity applies an affinity request to the thread with OS id tid.
	SetAffinity(tid uint64, a Affinity) error
	// Capabilities reports which of the above are backed by the OS.
	Capabilities() Capabilities
}
