// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Recorder keeps the most recent trace events in a bounded FIFO.

package tracing

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-thread/api"
)

var _ api.Tracer = (*Recorder)(nil)

// EventKind classifies recorded events.
type EventKind int

const (
	EventThreadNamed EventKind = iota
	EventZoneBegin
	EventZoneEnd
	EventZoneLog
)

func (k EventKind) String() string {
	switch k {
	case EventThreadNamed:
		return "thread_named"
	case EventZoneBegin:
		return "zone_begin"
	case EventZoneEnd:
		return "zone_end"
	case EventZoneLog:
		return "zone_log"
	default:
		return "unknown"
	}
}

// Event is one recorded trace event.
type Event struct {
	Kind   EventKind
	Name   string
	Fields map[string]any
	At     time.Time
}

// DefaultRecorderCapacity bounds a Recorder created with capacity <= 0.
const DefaultRecorderCapacity = 4096

// Recorder is an api.Tracer that stores events in memory. Once full, the
// oldest event is dropped for each new one.
type Recorder struct {
	mu      sync.Mutex
	events  *queue.Queue
	cap     int
	dropped uint64
}

// NewRecorder creates a recorder holding at most capacity events.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	return &Recorder{events: queue.New(), cap: capacity}
}

func (r *Recorder) push(ev Event) {
	ev.At = time.Now()
	r.mu.Lock()
	if r.events.Length() >= r.cap {
		r.events.Remove()
		r.dropped++
	}
	r.events.Add(ev)
	r.mu.Unlock()
}

// StartSpan records a zone begin; Finish on the span records the end.
func (r *Recorder) StartSpan(name string, _ ...api.SpanOption) api.Span {
	r.push(Event{Kind: EventZoneBegin, Name: name})
	return &recordedSpan{rec: r, name: name, tags: make(map[string]any)}
}

// SetThreadName records a thread naming event.
func (r *Recorder) SetThreadName(name string) {
	r.push(Event{Kind: EventThreadNamed, Name: name})
}

// Events returns a copy of the buffered events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, r.events.Length())
	for i := range out {
		out[i] = r.events.Get(i).(Event)
	}
	return out
}

// Count returns how many buffered events match kind and name. An empty
// name matches every event of that kind.
func (r *Recorder) Count(kind EventKind, name string) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind && (name == "" || ev.Name == name) {
			n++
		}
	}
	return n
}

// ThreadNames returns the names of all recorded thread naming events.
func (r *Recorder) ThreadNames() []string {
	var names []string
	for _, ev := range r.Events() {
		if ev.Kind == EventThreadNamed {
			names = append(names, ev.Name)
		}
	}
	return names
}

// Dropped reports how many events were evicted.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Reset clears the buffer.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = queue.New()
	r.dropped = 0
	r.mu.Unlock()
}

type recordedSpan struct {
	rec  *Recorder
	name string
	mu   sync.Mutex
	tags map[string]any
}

func (s *recordedSpan) Finish() {
	s.mu.Lock()
	tags := make(map[string]any, len(s.tags))
	for k, v := range s.tags {
		tags[k] = v
	}
	s.mu.Unlock()
	s.rec.push(Event{Kind: EventZoneEnd, Name: s.name, Fields: tags})
}

func (s *recordedSpan) SetTag(key string, value any) {
	s.mu.Lock()
	s.tags[key] = value
	s.mu.Unlock()
}

func (s *recordedSpan) Log(fields map[string]any) {
	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	s.rec.push(Event{Kind: EventZoneLog, Name: s.name, Fields: cp})
}
