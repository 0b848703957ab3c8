// control/profile.go
// Author: momentics <momentics@gmail.com>
//
// HCL thread profiles: named creation parameters loaded from .hcl files.
//
//	settings {
//	  max_threads = 64
//	  log_level   = "debug"
//	}
//
//	thread "io" {
//	  priority  = "high"
//	  suspended = true
//	  cpu       = last_cpu
//	}
//
// Expressions may use num_cpus and last_cpu.

package control

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/momentics/hioload-thread/api"
)

// Profile is one named set of thread creation parameters.
type Profile struct {
	Name      string `hcl:"name,label"`
	Priority  string `hcl:"priority,optional"`
	StackSize int    `hcl:"stack_size,optional"`
	Suspended bool   `hcl:"suspended,optional"`
	CPU       *int   `hcl:"cpu,optional"`
	Group     int    `hcl:"group,optional"`
	Override  string `hcl:"override,optional"`
	Count     int    `hcl:"count,optional"`
}

// Settings is the optional process-wide block of a profile file.
type Settings struct {
	MaxThreads  int    `hcl:"max_threads,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	MetricsAddr string `hcl:"metrics_addr,optional"`
}

// ProfileSet is the decoded content of a profile file.
type ProfileSet struct {
	Settings *Settings
	Profiles []*Profile
}

type hclProfileFile struct {
	Settings *Settings  `hcl:"settings,block"`
	Threads  []*Profile `hcl:"thread,block"`
}

// EvalContext exposes the host CPU topology to profile expressions.
func EvalContext() *hcl.EvalContext {
	n := runtime.NumCPU()
	last := n - 1
	if last < 0 {
		last = 0
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"num_cpus": cty.NumberIntVal(int64(n)),
			"last_cpu": cty.NumberIntVal(int64(last)),
		},
	}
}

// LoadProfiles parses the HCL file at path.
func LoadProfiles(path string) (*ProfileSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("control: read profiles: %w", err)
	}
	return ParseProfiles(src, path)
}

// ParseProfiles parses HCL source; filename is used in diagnostics only.
func ParseProfiles(src []byte, filename string) (*ProfileSet, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "control: parse profiles").WithCause(diags)
	}
	var parsed hclProfileFile
	if diags := gohcl.DecodeBody(file.Body, EvalContext(), &parsed); diags.HasErrors() {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "control: decode profiles").WithCause(diags)
	}

	seen := make(map[string]bool, len(parsed.Threads))
	for _, p := range parsed.Threads {
		if seen[p.Name] {
			return nil, api.NewError(api.ErrCodeInvalidArgument, "control: duplicate thread profile").
				WithContext("name", p.Name)
		}
		seen[p.Name] = true
		if err := p.validate(); err != nil {
			return nil, err
		}
	}
	return &ProfileSet{Settings: parsed.Settings, Profiles: parsed.Threads}, nil
}

func (p *Profile) validate() error {
	if _, err := api.ParsePriorityClass(p.Priority); err != nil {
		return err
	}
	if _, err := api.ParsePriorityClass(p.Override); err != nil {
		return err
	}
	switch {
	case p.StackSize < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "control: negative stack_size").WithContext("name", p.Name)
	case p.CPU != nil && *p.CPU < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "control: negative cpu").WithContext("name", p.Name)
	case p.Group < 0 || p.Group > 127:
		return api.NewError(api.ErrCodeInvalidArgument, "control: group out of range").WithContext("name", p.Name)
	case p.Count < 0:
		return api.NewError(api.ErrCodeInvalidArgument, "control: negative count").WithContext("name", p.Name)
	}
	return nil
}

// Params converts the profile into creation parameters.
func (p *Profile) Params() (api.CreateParams, error) {
	prio, err := api.ParsePriorityClass(p.Priority)
	if err != nil {
		return api.CreateParams{}, err
	}
	params := api.CreateParams{
		Name:            p.Name,
		StackSize:       p.StackSize,
		Priority:        prio,
		CreateSuspended: p.Suspended,
	}
	if p.CPU != nil {
		params.InitialAffinity = api.Affinity{Specified: true, Group: uint8(p.Group), ID: uint32(*p.CPU)}
	}
	return params, nil
}

// OverrideClass returns the override requested while the thread runs and
// whether one was requested at all.
func (p *Profile) OverrideClass() (api.PriorityClass, bool) {
	if p.Override == "" {
		return api.PriorityNormal, false
	}
	c, err := api.ParsePriorityClass(p.Override)
	return c, err == nil
}

// Instances returns how many threads the profile asks for (at least one).
func (p *Profile) Instances() int {
	if p.Count <= 0 {
		return 1
	}
	return p.Count
}

// Apply writes the settings into cs, triggering its reload listeners.
func (s *Settings) Apply(cs *ConfigStore) {
	if s == nil {
		return
	}
	cfg := map[string]any{KeyMaxThreads: s.MaxThreads}
	if s.LogLevel != "" {
		cfg[KeyLogLevel] = s.LogLevel
	}
	if s.MetricsAddr != "" {
		cfg[KeyMetricsAddr] = s.MetricsAddr
	}
	cs.SetConfig(cfg)
}
