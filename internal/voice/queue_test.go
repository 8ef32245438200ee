package voice

import (
	"io"
	"log/slog"
	"testing"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestQueuePushPop checks the queue delivers commands in FIFO order and Pop
// never blocks on an empty queue.
func TestQueuePushPop(t *testing.T) {
	q := NewQueue(4, discardLog())

	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty queue should report no command")
	}

	q.Push(Command{Intent: IntentStartCurl})
	q.Push(Command{Intent: IntentStop})

	first, ok := q.Pop()
	if !ok || first.Intent != IntentStartCurl {
		t.Errorf("first = %+v, want start_bicep_curl", first)
	}
	second, ok := q.Pop()
	if !ok || second.Intent != IntentStop {
		t.Errorf("second = %+v, want stop", second)
	}
}

// TestQueueFullDrops checks a saturated queue drops the newest command and
// reports the drop instead of blocking the producer.
func TestQueueFullDrops(t *testing.T) {
	q := NewQueue(1, discardLog())

	if !q.Push(Command{Intent: IntentReady}) {
		t.Fatal("first push should succeed")
	}
	if q.Push(Command{Intent: IntentSkip}) {
		t.Fatal("push into a full queue should report the drop")
	}

	got, ok := q.Pop()
	if !ok || got.Intent != IntentReady {
		t.Errorf("surviving command = %+v, want the first one", got)
	}
}

// TestIntentKnown checks the fixed vocabulary and that anything else is
// rejected.
func TestIntentKnown(t *testing.T) {
	for _, in := range []Intent{IntentNone, IntentStartWorkout, IntentStartCurl, IntentStartRaise, IntentReady, IntentSkip, IntentStop} {
		if !in.Known() {
			t.Errorf("%q should be known", in)
		}
	}
	if Intent("make_coffee").Known() {
		t.Error("unknown intent accepted")
	}
}
