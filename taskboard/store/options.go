package store

import (
	"log/slog"
	"time"
)

// Option is a function that modifies Store configuration
type Option func(*Store)

// WithClock sets the time source used for creation and completion timestamps
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		s.clock = fn
	}
}

// WithIDGenerator sets the function that assigns task ids
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithLogger sets the logger for command tracing and load warnings
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithStrictIDs makes Update, Remove and ToggleComplete return
// ErrTaskNotFound for unknown ids instead of silently doing nothing
func WithStrictIDs() Option {
	return func(s *Store) {
		s.strict = true
	}
}
