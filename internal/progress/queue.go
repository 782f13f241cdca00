package progress

import (
	"log/slog"
	"sync"
)

// EventKind tells log events from progress events.
type EventKind uint8

const (
	EventLog EventKind = iota
	EventProgress
)

// Event is one message posted to a Queue.
type Event struct {
	Kind    EventKind
	Level   slog.Level
	Msg     string
	Args    []any
	Stage   Stage
	Percent int
}

// Queue is a Sink that hands events to a consumer goroutine over a channel.
// The engine runs on a worker goroutine and the consumer renders what it
// receives; neither touches the other's state.
type Queue struct {
	events chan Event
	min    slog.Level

	mu     sync.RWMutex
	closed bool
}

// NewQueue returns a queue buffering up to size events. Log events below min
// are dropped at the source.
func NewQueue(size int, min slog.Level) *Queue {
	return &Queue{events: make(chan Event, size), min: min}
}

// Events is the receive side of the queue. It is closed by Close.
func (q *Queue) Events() <-chan Event { return q.events }

func (q *Queue) Log(level slog.Level, msg string, args ...any) {
	if level < q.min {
		return
	}
	q.post(Event{Kind: EventLog, Level: level, Msg: msg, Args: args})
}

func (q *Queue) Progress(stage Stage, percent int) {
	q.post(Event{Kind: EventProgress, Stage: stage, Percent: Clamp(percent)})
}

// Close ends the stream. Events posted after Close are dropped.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
}

func (q *Queue) post(e Event) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	q.events <- e
}
