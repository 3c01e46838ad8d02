package study

import (
	"log/slog"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain/srs"
	"github.com/phrazzld/scry-deck/internal/events"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for due checks and scheduling.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRandSource sets the random source for the weighted draw.
func WithRandSource(rng srs.RandSource) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithSRSService replaces the scheduling rules.
func WithSRSService(svc srs.Service) Option {
	return func(e *Engine) {
		if svc != nil {
			e.srs = svc
		}
	}
}

// WithEmitter sets where session notifications are published.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(e *Engine) {
		if emitter != nil {
			e.emitter = emitter
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFilter sets the initial lesson selection and due-only mode.
func WithFilter(lessons []string, onlyDue bool) Option {
	return func(e *Engine) {
		e.selectedLessons = lessonSet(lessons)
		e.showOnlyDue = onlyDue
	}
}

func defaultClock() time.Time {
	return time.Now().UTC()
}

func lessonSet(lessons []string) map[string]struct{} {
	set := make(map[string]struct{}, len(lessons))
	for _, lesson := range lessons {
		set[lesson] = struct{}{}
	}
	return set
}
