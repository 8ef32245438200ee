package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/gymbuddy/internal/coach"
	"github.com/claude/gymbuddy/internal/config"
	"github.com/claude/gymbuddy/internal/journal"
	"github.com/claude/gymbuddy/internal/logbook"
	gymmcp "github.com/claude/gymbuddy/internal/mcp"
	"github.com/claude/gymbuddy/internal/pose"
	"github.com/claude/gymbuddy/internal/server"
	"github.com/claude/gymbuddy/internal/storage"
	"github.com/claude/gymbuddy/internal/voice"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const intentQueueCapacity = 8

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("GymBuddy starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect database. Without it GymBuddy runs journal-only.
	var db *storage.DB
	if cfg.Database.Enabled {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")
	} else {
		if *migrateOnly {
			log.Error("migrate-only requires database.enabled")
			os.Exit(1)
		}
		log.Info("database disabled, logs go to the local journal only")
	}

	// Open local journal
	var jnl *journal.DB
	if cfg.Journal.Dir != "" {
		jnl, err = journal.Open(cfg.Journal.Dir)
		if err != nil {
			log.Error("failed to open journal", "dir", cfg.Journal.Dir, "error", err)
			os.Exit(1)
		}
		defer jnl.Close()
	}

	recorder := logbook.New(db, jnl, log)
	defer recorder.Close()
	if db != nil && jnl != nil {
		recorder.ReplayJournal(ctx)
	}

	// Speech sidecar
	var speaker voice.Speaker = voice.NopSpeaker{}
	if cfg.Speech.URL != "" {
		hs := voice.NewHTTPSpeaker(cfg.Speech.URL, log)
		defer hs.Close()
		speaker = hs
	} else {
		log.Info("speech sidecar not configured, running silent")
	}

	// Coaching core
	intents := voice.NewQueue(intentQueueCapacity, log)
	orch := coach.New(intents, speaker, recorder, cfg.Routine.Path, log)

	// Frame source
	frameInput, err := openFrameSource(cfg.Pose, log)
	if err != nil {
		log.Error("failed to open frame source", "error", err)
		os.Exit(1)
	}
	stream := pose.NewStreamReader(frameInput, log)

	streamDone := make(chan struct{})
	go func() {
		defer close(streamDone)
		if err := stream.Run(); err != nil {
			log.Error("frame stream failed", "error", err)
		}
	}()
	go func() {
		for f := range stream.Frames() {
			orch.Tick(f, f.T)
		}
		log.Info("frame stream ended")
	}()

	// HTTP server with MCP mounted alongside the REST API
	srv := server.New(db, orch, intents, log)
	mcpSrv := gymmcp.New(mcpDataSource(db), orch, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server over tsnet or plain HTTP.
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig)
	case <-streamDone:
		log.Info("shutting down, frame source closed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openFrameSource returns the reader frames arrive on: stdin by default, or
// one accepted TCP connection from the perception process.
func openFrameSource(cfg config.PoseConfig, log *slog.Logger) (io.Reader, error) {
	switch cfg.Source {
	case "", "stdin":
		log.Info("reading frames from stdin")
		return os.Stdin, nil
	case "tcp":
		ln, err := net.Listen("tcp", cfg.Listen)
		if err != nil {
			return nil, fmt.Errorf("listening for frames on %s: %w", cfg.Listen, err)
		}
		log.Info("waiting for frame connection", "addr", cfg.Listen)
		conn, err := ln.Accept()
		ln.Close()
		if err != nil {
			return nil, fmt.Errorf("accepting frame connection: %w", err)
		}
		log.Info("frame source connected", "remote", conn.RemoteAddr())
		return conn, nil
	default:
		return nil, fmt.Errorf("unknown pose source %q", cfg.Source)
	}
}

// mcpDataSource converts the possibly-nil *storage.DB into the interface the
// MCP layer expects. A plain assignment would produce a non-nil interface
// wrapping a nil pointer.
func mcpDataSource(db *storage.DB) gymmcp.DataSource {
	if db == nil {
		return nil
	}
	return db
}
