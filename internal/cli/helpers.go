package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/codegen"
	"github.com/aretw0/crank/internal/config"
	"github.com/aretw0/crank/internal/logging"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	sigCh  chan os.Signal
	mu     sync.Mutex
	sigVal os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}
	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sc.sigCh)
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
	}()
	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Session is the resolved configuration of one CLI invocation.
type Session struct {
	Settings config.Settings
	Logger   *slog.Logger
}

// Load reads the config file, merges the flags over it and builds the
// logger. Logs go to stderr so generated output on stdout stays clean.
func Load(configPath string, flags config.Flags, stderr io.Writer) (*Session, error) {
	file, err := config.Discover(configPath)
	if err != nil {
		return nil, err
	}
	s := config.Merge(file, flags)
	if _, err := codegen.ByName(s.Style); err != nil {
		return nil, err
	}
	level := logging.Level(s.Debug, s.Verbose, s.Quiet)
	return &Session{
		Settings: s,
		Logger:   logging.NewWithWriter(stderr, level),
	}, nil
}

// Engine builds the crank engine for the session.
func (s *Session) Engine() (*crank.Engine, error) {
	em, err := codegen.ByName(s.Settings.Style)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return crank.New(
		crank.WithLogger(s.Logger),
		crank.WithDefaultStyle(em),
		crank.WithBackup(s.Settings.Backup),
	), nil
}
