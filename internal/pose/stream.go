package pose

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
)

// StreamReader decodes newline-delimited JSON frames from the perception
// process and delivers them on a bounded channel. The channel is the
// single-producer side of the frame pipeline; the engine loop is the single
// consumer.
type StreamReader struct {
	r      io.Reader
	log    *slog.Logger
	frames chan Frame
	lastT  float64
}

// NewStreamReader creates a reader over r. The frame channel is bounded so a
// stalled consumer applies backpressure to the decoder instead of growing an
// unbounded buffer.
func NewStreamReader(r io.Reader, log *slog.Logger) *StreamReader {
	return &StreamReader{
		r:      r,
		log:    log,
		frames: make(chan Frame, 4),
	}
}

// Frames returns the channel frames are delivered on. It is closed when the
// underlying stream ends.
func (sr *StreamReader) Frames() <-chan Frame {
	return sr.frames
}

// Run decodes frames until the stream ends or fails. Malformed lines are
// skipped with a warning; frames with a timestamp earlier than the previous
// frame are dropped to preserve the non-decreasing clock contract.
func (sr *StreamReader) Run() error {
	defer close(sr.frames)

	scanner := bufio.NewScanner(sr.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			sr.log.Warn("skipping malformed frame", "error", err)
			continue
		}
		if f.T < sr.lastT {
			sr.log.Warn("dropping out-of-order frame", "t", f.T, "last", sr.lastT)
			continue
		}
		sr.lastT = f.T

		sr.frames <- f
	}
	return scanner.Err()
}
