// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/momentics/hioload-thread/api"
)

const sampleProfiles = `
settings {
  max_threads = 16
  log_level   = "debug"
}

thread "io" {
  priority  = "high"
  suspended = true
  cpu       = last_cpu
  override  = "highest"
}

thread "worker" {
  priority = "low"
  count    = num_cpus
}

thread "plain" {}
`

func intPtr(v int) *int { return &v }

func TestParseProfiles(t *testing.T) {
	set, err := ParseProfiles([]byte(sampleProfiles), "sample.hcl")
	if err != nil {
		t.Fatalf("ParseProfiles: %v", err)
	}
	last := runtime.NumCPU() - 1
	want := &ProfileSet{
		Settings: &Settings{MaxThreads: 16, LogLevel: "debug"},
		Profiles: []*Profile{
			{Name: "io", Priority: "high", Suspended: true, CPU: intPtr(last), Override: "highest"},
			{Name: "worker", Priority: "low", Count: runtime.NumCPU()},
			{Name: "plain"},
		},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Errorf("profiles mismatch (-want +got):\n%s", diff)
	}
}

func TestProfile_Params(t *testing.T) {
	p := &Profile{Name: "io", Priority: "high", StackSize: 1 << 20, Suspended: true, CPU: intPtr(2), Group: 1}
	got, err := p.Params()
	if err != nil {
		t.Fatalf("Params: %v", err)
	}
	want := api.CreateParams{
		Name:            "io",
		StackSize:       1 << 20,
		Priority:        api.PriorityHigh,
		CreateSuspended: true,
		InitialAffinity: api.Affinity{Specified: true, Group: 1, ID: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}

	noCPU, _ := (&Profile{Name: "x"}).Params()
	if noCPU.InitialAffinity.Specified {
		t.Errorf("profile without cpu must not request affinity")
	}
	if noCPU.Priority != api.PriorityNormal {
		t.Errorf("default priority = %v", noCPU.Priority)
	}
}

func TestProfile_OverrideAndInstances(t *testing.T) {
	p := &Profile{Override: "highest", Count: 3}
	if c, ok := p.OverrideClass(); !ok || c != api.PriorityHighest {
		t.Errorf("OverrideClass() = %v, %v", c, ok)
	}
	if n := p.Instances(); n != 3 {
		t.Errorf("Instances() = %d", n)
	}
	empty := &Profile{}
	if _, ok := empty.OverrideClass(); ok {
		t.Errorf("empty override reported as requested")
	}
	if n := empty.Instances(); n != 1 {
		t.Errorf("default Instances() = %d", n)
	}
}

func TestParseProfiles_Rejects(t *testing.T) {
	cases := map[string]string{
		"syntax":     `thread "a" {`,
		"duplicate":  "thread \"a\" {}\nthread \"a\" {}\n",
		"priority":   `thread "a" { priority = "urgent" }`,
		"stack":      `thread "a" { stack_size = -1 }`,
		"cpu":        `thread "a" { cpu = -3 }`,
		"group":      `thread "a" { group = 200 }`,
		"count":      `thread "a" { count = -1 }`,
		"unknownVar": `thread "a" { cpu = gpu_count }`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProfiles([]byte(src), name+".hcl")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !errors.Is(err, api.ErrInvalidArgument) {
				t.Errorf("error %v does not match ErrInvalidArgument", err)
			}
		})
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "threads.hcl")
	if err := os.WriteFile(path, []byte(sampleProfiles), 0o600); err != nil {
		t.Fatal(err)
	}
	set, err := LoadProfiles(path)
	if err != nil {
		t.Fatalf("LoadProfiles: %v", err)
	}
	if len(set.Profiles) != 3 {
		t.Errorf("got %d profiles", len(set.Profiles))
	}

	if _, err := LoadProfiles(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSettings_Apply(t *testing.T) {
	cs := NewConfigStore()
	reloads := 0
	cs.OnReload(func() { reloads++ })

	var none *Settings
	none.Apply(cs)
	if reloads != 0 {
		t.Fatalf("nil settings triggered a reload")
	}

	(&Settings{MaxThreads: 4, MetricsAddr: ":9100"}).Apply(cs)
	want := Defaults{MaxThreads: 4, LogLevel: "info", MetricsAddr: ":9100"}
	if diff := cmp.Diff(want, cs.Defaults()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if reloads != 1 {
		t.Errorf("reloads = %d", reloads)
	}
}
