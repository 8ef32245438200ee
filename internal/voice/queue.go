package voice

import "log/slog"

// Queue is the bounded single-producer/single-consumer bridge between the
// asynchronous voice pipeline and the synchronous frame loop. Both ends are
// non-blocking: the producer drops when the consumer is saturated, and the
// consumer drains at most one command per frame.
type Queue struct {
	ch  chan Command
	log *slog.Logger
}

// NewQueue returns a queue with the given capacity.
func NewQueue(capacity int, log *slog.Logger) *Queue {
	return &Queue{ch: make(chan Command, capacity), log: log}
}

// Push offers a command without blocking. A full queue drops the command
// with a warning and returns false; the voice pipeline never stalls the
// frame loop.
func (q *Queue) Push(cmd Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		q.log.Warn("intent queue full, dropping command", "intent", string(cmd.Intent))
		return false
	}
}

// Pop takes one queued command without blocking.
func (q *Queue) Pop() (Command, bool) {
	select {
	case cmd := <-q.ch:
		return cmd, true
	default:
		return Command{}, false
	}
}
