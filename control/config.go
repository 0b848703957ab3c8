// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"strconv"
	"sync"
)

// Configuration keys understood by the thread tooling.
const (
	KeyMaxThreads  = "max_threads"
	KeyLogLevel    = "log_level"
	KeyMetricsAddr = "metrics_addr"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	snapshot := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		snapshot[k] = v
	}
	return snapshot
}

// SetConfig merges new values and runs every reload listener synchronously,
// outside the store lock, so listeners may read the store.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := append([]func(){}, cs.listeners...)
	cs.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// Int reads key as an int, falling back to def when absent or malformed.
func (cs *ConfigStore) Int(key string, def int) int {
	cs.mu.RLock()
	v, ok := cs.config[key]
	cs.mu.RUnlock()
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// String reads key as a string, falling back to def when absent.
func (cs *ConfigStore) String(key string, def string) string {
	cs.mu.RLock()
	v, ok := cs.config[key]
	cs.mu.RUnlock()
	if s, isStr := v.(string); ok && isStr && s != "" {
		return s
	}
	return def
}

// Defaults are the process-wide thread settings.
type Defaults struct {
	MaxThreads  int
	LogLevel    string
	MetricsAddr string
}

// Defaults reads the process-wide thread settings from the store.
func (cs *ConfigStore) Defaults() Defaults {
	return Defaults{
		MaxThreads:  cs.Int(KeyMaxThreads, 0),
		LogLevel:    cs.String(KeyLogLevel, "info"),
		MetricsAddr: cs.String(KeyMetricsAddr, ""),
	}
}
