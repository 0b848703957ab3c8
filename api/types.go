// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import (
	"fmt"
	"strings"
)

// MaxThreadNameLen is the longest diagnostic thread name kept, in bytes.
// Linux limits comm names to 16 bytes including the terminator.
const MaxThreadNameLen = 15

// PriorityClass is a coarse, ordered scheduling tier. Platforms map it onto
// their own numeric ranges; it is only ever a hint.
type PriorityClass int32

const (
	// PriorityLowest is used for background/idle work.
	PriorityLowest PriorityClass = -2
	// PriorityLow is for work the user still expects to complete soon.
	PriorityLow PriorityClass = -1
	// PriorityNormal is the system default.
	PriorityNormal PriorityClass = 0
	// PriorityHigh is for operations the user is waiting on.
	PriorityHigh PriorityClass = 1
	// PriorityHighest is for interactive work.
	PriorityHighest PriorityClass = 2
)

// PriorityClasses lists all classes in ascending order.
var PriorityClasses = []PriorityClass{
	PriorityLowest, PriorityLow, PriorityNormal, PriorityHigh, PriorityHighest,
}

func (c PriorityClass) String() string {
	switch c {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	default:
		return fmt.Sprintf("priority(%d)", int32(c))
	}
}

// Valid reports whether c is one of the defined classes.
func (c PriorityClass) Valid() bool {
	return c >= PriorityLowest && c <= PriorityHighest
}

// Clamp pins out-of-range values to the nearest defined class.
func (c PriorityClass) Clamp() PriorityClass {
	if c < PriorityLowest {
		return PriorityLowest
	}
	if c > PriorityHighest {
		return PriorityHighest
	}
	return c
}

// ParsePriorityClass accepts the names produced by String.
// The empty string parses as PriorityNormal.
func ParsePriorityClass(s string) (PriorityClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return PriorityNormal, nil
	case "lowest":
		return PriorityLowest, nil
	case "low":
		return PriorityLow, nil
	case "high":
		return PriorityHigh, nil
	case "highest":
		return PriorityHighest, nil
	}
	return PriorityNormal, NewError(ErrCodeInvalidArgument, "unknown priority class").
		WithContext("value", s)
}

// MarshalText encodes the class by name.
func (c PriorityClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names understood by ParsePriorityClass.
func (c *PriorityClass) UnmarshalText(b []byte) error {
	v, err := ParsePriorityClass(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CreateParams are the optional thread creation parameters. The zero value
// is valid: unnamed, default stack, NORMAL priority, runnable, any CPU.
type CreateParams struct {
	// Name is a developer-visible label shown in debuggers and traces.
	Name string
	// StackSize in bytes; 0 selects the platform default.
	StackSize int
	// Priority is the base priority class.
	Priority PriorityClass
	// CreateSuspended keeps the entry function from running until Resume.
	CreateSuspended bool
	// InitialAffinity is applied right after creation when specified.
	InitialAffinity Affinity
}

// Capabilities describes which best-effort operations a platform backs
// with a real system call.
type Capabilities struct {
	Naming   bool
	Priority bool
	Affinity bool
}
