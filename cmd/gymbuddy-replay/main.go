package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/pose"
	"github.com/claude/gymbuddy/internal/voice"
)

// gymbuddy-replay runs a recorded frame stream through the coaching core and
// prints the resulting performance summaries. Useful for tuning form
// thresholds against captured sessions without a camera or database.
func main() {
	framesPath := flag.String("frames", "", "path to JSONL frame capture (required)")
	exercise := flag.String("exercise", "bicep_curl", "exercise to track (bicep_curl or lateral_raise)")
	weight := flag.Float64("weight", 0, "weight in lbs to attach to the session")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *framesPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymbuddy-replay -frames capture.jsonl [-exercise lateral_raise] [-weight 20]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var startIntent voice.Intent
	switch *exercise {
	case "bicep_curl":
		startIntent = voice.IntentStartCurl
	case "lateral_raise":
		startIntent = voice.IntentStartRaise
	default:
		log.Error("unknown exercise", "exercise", *exercise)
		os.Exit(1)
	}

	f, err := os.Open(*framesPath)
	if err != nil {
		log.Error("failed to open frame capture", "path", *framesPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	intents := voice.NewQueue(8, log)
	orch := coach.New(intents, voice.NopSpeaker{}, &summaryRecorder{log: log}, "", log)

	start := voice.Command{Intent: startIntent}
	if *weight > 0 {
		start.WeightLbs = weight
	}
	intents.Push(start)

	stream := pose.NewStreamReader(f, log)
	go func() {
		if err := stream.Run(); err != nil {
			log.Error("frame stream failed", "error", err)
		}
	}()

	var lastT float64
	for frame := range stream.Frames() {
		orch.Tick(frame, frame.T)
		lastT = frame.T
	}

	// Flush whatever the capture left unfinished.
	intents.Push(voice.Command{Intent: voice.IntentStop})
	orch.Tick(pose.Frame{T: lastT}, lastT)
	log.Info("replay complete", "duration_seconds", lastT)
}

// summaryRecorder prints each completed block instead of persisting it.
type summaryRecorder struct {
	log *slog.Logger
}

func (r *summaryRecorder) Record(p *coach.Performance) {
	attrs := []any{
		"exercise", p.Exercise,
		"sets", len(p.SetReps),
		"total_reps", p.TotalReps(),
		"avg_score", fmt.Sprintf("%.1f", p.AvgScore()),
		"best_score", p.BestScore(),
		"worst_score", p.WorstScore(),
		"injury_warnings", p.InjuryWarnings,
	}
	if p.WeightLbs != nil {
		attrs = append(attrs, "weight_lbs", *p.WeightLbs)
	}
	r.log.Info("exercise summary", attrs...)
}
