package voice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Speaker queues text for spoken playback without ever blocking the caller,
// and reports whether playback is in progress.
type Speaker interface {
	Say(text string)
	Busy() bool
}

// HTTPSpeaker posts text to a TTS sidecar over HTTP from a single background
// worker. Only the latest un-spoken message is kept: the coach should stay
// current, not read out a backlog of stale corrections.
type HTTPSpeaker struct {
	url    string
	client *http.Client
	log    *slog.Logger

	mu      sync.Mutex
	pending *string
	wake    chan struct{}
	busy    atomic.Bool
	done    chan struct{}
}

// NewHTTPSpeaker creates a speaker posting to url and starts its worker.
func NewHTTPSpeaker(url string, log *slog.Logger) *HTTPSpeaker {
	s := &HTTPSpeaker{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

// Say replaces any pending un-spoken text with text and returns immediately.
func (s *HTTPSpeaker) Say(text string) {
	s.mu.Lock()
	s.pending = &text
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Busy reports whether the sidecar is currently being spoken through.
func (s *HTTPSpeaker) Busy() bool {
	return s.busy.Load()
}

// Close stops the worker. Pending text is discarded.
func (s *HTTPSpeaker) Close() {
	close(s.done)
}

func (s *HTTPSpeaker) worker() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		text := s.pending
		s.pending = nil
		s.mu.Unlock()
		if text == nil {
			continue
		}

		s.busy.Store(true)
		if err := s.speak(*text); err != nil {
			s.log.Warn("speech playback failed", "error", err)
		}
		s.busy.Store(false)
	}
}

// speak posts one utterance and waits for the sidecar to finish playback
// (the sidecar responds once audio output completes, which is what drives
// the busy flag).
func (s *HTTPSpeaker) speak(text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encoding speech request: %w", err)
	}

	resp, err := s.client.Post(s.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("speech sidecar returned status %d", resp.StatusCode)
	}
	return nil
}

// NopSpeaker discards all speech. Used by the replay CLI and tests.
type NopSpeaker struct{}

func (NopSpeaker) Say(string) {}
func (NopSpeaker) Busy() bool { return false }
