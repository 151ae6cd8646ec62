// Package notify is the transient message surface shared by the wizard,
// outline editor and pipeline. The TUI shows notifications as auto-dismissing
// flashes; headless commands log them.
package notify

import (
	"log/slog"
	"sync"
)

type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notifier interface {
	Notify(level Level, message string)
}

// Func adapts a function to Notifier.
type Func func(Level, string)

func (f Func) Notify(l Level, msg string) { f(l, msg) }

// Logger routes notifications to slog for headless runs.
type Logger struct {
	Log *slog.Logger
}

func (n Logger) Notify(l Level, msg string) {
	switch l {
	case Error:
		n.Log.Error(msg)
	case Warning:
		n.Log.Warn(msg)
	default:
		n.Log.Info(msg, "level", l.String())
	}
}

type Entry struct {
	Level   Level
	Message string
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Notify(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: l, Message: msg})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// CountLevel returns how many recorded entries carry the given level.
func (r *Recorder) CountLevel(l Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == l {
			n++
		}
	}
	return n
}
