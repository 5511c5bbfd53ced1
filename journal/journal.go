// Package journal keeps the most recent log entries in memory so they can be
// exported over HTTP. A Journal is safe for concurrent use.
package journal

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 200

// Policy decides which levels are retained.
type Policy int

const (
	// Development keeps every level.
	Development Policy = iota
	// Production keeps warnings and above.
	Production
)

// MinLevel is the lowest level the policy retains.
func (p Policy) MinLevel() zapcore.Level {
	if p == Production {
		return zapcore.WarnLevel
	}
	return zapcore.DebugLevel
}

// ParsePolicy maps "production"/"prod" to Production and everything else to
// Development.
func ParsePolicy(s string) Policy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	}
	return Development
}

func (p Policy) String() string {
	if p == Production {
		return "production"
	}
	return "development"
}

// Entry is one retained record.
type Entry struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// Journal is a fixed-capacity ring of entries. When full, recording a new
// entry evicts the oldest.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	start   int
	count   int
	policy  Policy
	now     func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithPolicy sets the level policy. The default is Development.
func WithPolicy(p Policy) Option {
	return func(j *Journal) { j.policy = p }
}

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// New returns an empty journal holding at most capacity entries.
func New(capacity int, opts ...Option) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	j := &Journal{
		entries: make([]Entry, capacity),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Policy returns the journal's level policy.
func (j *Journal) Policy() Policy {
	return j.policy
}

// Capacity returns the maximum number of retained entries.
func (j *Journal) Capacity() int {
	return len(j.entries)
}

// Enabled reports whether entries at level would be retained.
func (j *Journal) Enabled(level zapcore.Level) bool {
	return level >= j.policy.MinLevel()
}

// Record stores an entry if the policy allows its level and reports whether
// it did. ctx is copied.
func (j *Journal) Record(level zapcore.Level, msg string, ctx map[string]any) bool {
	if !j.Enabled(level) {
		return false
	}
	e := Entry{
		Time:    j.now().UTC(),
		Level:   level.String(),
		Message: msg,
	}
	if len(ctx) > 0 {
		e.Context = make(map[string]any, len(ctx))
		for k, v := range ctx {
			e.Context[k] = v
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	idx := (j.start + j.count) % len(j.entries)
	j.entries[idx] = e
	if j.count < len(j.entries) {
		j.count++
	} else {
		j.start = (j.start + 1) % len(j.entries)
	}
	return true
}

// Export returns the retained entries, oldest first.
func (j *Journal) Export() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, 0, j.count)
	for i := 0; i < j.count; i++ {
		out = append(out, j.entries[(j.start+i)%len(j.entries)])
	}
	return out
}

// Len returns the number of retained entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Clear drops every entry.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	clear(j.entries)
	j.start, j.count = 0, 0
}
