package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/crank/internal/logging"
	"github.com/aretw0/crank/pkg/dispatch"
)

// Poster receives events by name. *dispatch.Machine implements it.
type Poster interface {
	PostName(name string) error
}

// EventSource feeds a machine with event names popped from a Redis list.
// Producers append with RPUSH (see Publish); the source pops with BLPOP so
// events are delivered in FIFO order.
type EventSource struct {
	client  *backend.Client
	key     string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*EventSource)

// WithKey sets the list key holding event names.
func WithKey(key string) Option {
	return func(s *EventSource) {
		s.key = key
	}
}

// WithTimeout sets how long a single BLPOP blocks before retrying.
func WithTimeout(d time.Duration) Option {
	return func(s *EventSource) {
		s.timeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *EventSource) {
		s.logger = logger
	}
}

// New creates an event source connected to a Redis server.
func New(address, password string, db int, opts ...Option) *EventSource {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates an event source from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *EventSource {
	s := &EventSource{
		client:  client,
		key:     "crank:events",
		timeout: time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the list key.
func (s *EventSource) Key() string { return s.key }

// Publish appends event names to the list.
func (s *EventSource) Publish(ctx context.Context, events ...string) error {
	if len(events) == 0 {
		return nil
	}
	args := make([]any, len(events))
	for i, e := range events {
		args[i] = e
	}
	if err := s.client.RPush(ctx, s.key, args...).Err(); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}
	return nil
}

// Run pops event names and posts them to target until ctx is done.
// Names target does not know are logged and dropped.
func (s *EventSource) Run(ctx context.Context, target Poster) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		res, err := s.client.BLPop(ctx, s.timeout, s.key).Result()
		if errors.Is(err, backend.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to pop events: %w", err)
		}
		// BLPOP replies with [key, value].
		if len(res) != 2 {
			continue
		}
		if err := target.PostName(res[1]); err != nil {
			s.logger.Warn("dropping event", "key", s.key, "event", res[1], "error", err)
			continue
		}
		s.logger.Debug("event received", "key", s.key, "event", res[1])
	}
}

// JournalKey is the list receiving transition records.
func (s *EventSource) JournalKey() string { return s.key + ":journal" }

// Journal returns an observer appending every fired transition as JSON to
// JournalKey.
func (s *EventSource) Journal(ctx context.Context) dispatch.Observer {
	return dispatch.Observer{
		OnTransition: func(e *dispatch.TransitionEvent) {
			data, err := json.Marshal(e)
			if err != nil {
				s.logger.Error("failed to marshal transition", "error", err)
				return
			}
			if err := s.client.RPush(ctx, s.JournalKey(), data).Err(); err != nil {
				s.logger.Error("failed to journal transition", "error", err)
			}
		},
	}
}

// Close closes the redis client.
func (s *EventSource) Close() error {
	return s.client.Close()
}
