// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package affinity

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-thread/api"
)

func TestApply_UnspecifiedIsNoop(t *testing.T) {
	if err := Apply(0, api.AffinityAny()); err != nil {
		t.Fatalf("Apply(any) = %v", err)
	}
}

func TestApply_OutOfRange(t *testing.T) {
	err := Apply(0, api.AffinityCore(NumCPUs()+8))
	if !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("Apply(out of range) = %v, want invalid argument", err)
	}
}

func TestLastCPU(t *testing.T) {
	if got, want := LastCPU(), NumCPUs()-1; got != want {
		t.Errorf("LastCPU() = %d, want %d", got, want)
	}
}
