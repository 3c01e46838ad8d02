package study

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/domain/srs"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/service"
)

// Engine schedules the cards of one deck for study.
type Engine struct {
	mu sync.Mutex

	repo    *service.DeckRepository
	srs     srs.Service
	rng     srs.RandSource
	picker  *srs.WeightedPicker
	emitter events.EventEmitter
	clock   func() time.Time
	logger  *slog.Logger

	selectedLessons map[string]struct{}
	showOnlyDue     bool
	current         *domain.Card
	showAnswers     bool
	seenInCycle     map[uuid.UUID]struct{}
	dueCardsSeen    map[uuid.UUID]struct{}
	cycleCompleted  bool
	stats           domain.Stats
}

// NewEngine creates an engine over repo. Call Start to load the deck and
// present the first card.
// It returns an error if repo is nil.
func NewEngine(repo *service.DeckRepository, opts ...Option) (*Engine, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: repository cannot be nil", domain.ErrValidation)
	}

	e := &Engine{
		repo:            repo,
		srs:             srs.NewDefaultService(),
		emitter:         events.NopEmitter{},
		clock:           defaultClock,
		logger:          slog.Default(),
		selectedLessons: map[string]struct{}{},
		seenInCycle:     map[uuid.UUID]struct{}{},
		dueCardsSeen:    map[uuid.UUID]struct{}{},
		stats:           domain.ComputeStats(nil),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With(slog.String("component", "study_engine"))
	e.picker = srs.NewWeightedPicker(e.rng, e.srs.Weight)
	return e, nil
}

// pending collects notifications raised while the lock is held.
type pending []*events.Event

func (p *pending) add(eventType events.Type, cardID uuid.UUID, at time.Time) {
	*p = append(*p, events.NewEvent(eventType, cardID, at))
}

// emit publishes notifications. It must be called without holding e.mu.
func (e *Engine) emit(ctx context.Context, notes pending) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	for _, event := range notes {
		if err := e.emitter.EmitEvent(ctx, event); err != nil {
			log.Warn("event handler failed",
				slog.String("event_type", string(event.Type)),
				slog.String("error", err.Error()))
		}
	}
}

// Start loads the deck, computes statistics and presents the first card.
// It reports whether the sample deck was seeded.
func (e *Engine) Start(ctx context.Context) bool {
	e.mu.Lock()
	seeded := e.repo.Load(ctx)
	e.recomputeStats()
	var notes pending
	e.resetCycle()
	e.pickNext(e.clock(), &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
	return seeded
}

// Snapshot returns a copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	var current *domain.Card
	if e.current != nil {
		current = e.current.Clone()
	}

	return Snapshot{
		CurrentCard:     current,
		ShowAnswers:     e.showAnswers,
		SelectedLessons: sortedLessons(e.selectedLessons),
		ShowOnlyDue:     e.showOnlyDue,
		CycleCompleted:  e.cycleCompleted,
		Progress:        e.progress(e.clock()),
		Stats:           cloneStats(e.stats),
	}
}

// PickNext presents another card without rating the current one.
func (e *Engine) PickNext(ctx context.Context) {
	e.mu.Lock()
	var notes pending
	e.pickNext(e.clock(), &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
}

// Reveal shows the answer of the current card. It does nothing when no
// card is presented.
func (e *Engine) Reveal(ctx context.Context) {
	e.mu.Lock()
	var notes pending
	if e.current != nil && !e.showAnswers {
		e.showAnswers = true
		notes.add(events.SessionChanged, e.current.ID, e.clock())
	}
	e.mu.Unlock()

	e.emit(ctx, notes)
}

// Rate records rating for the current card, reschedules it, persists the
// deck and presents the next card.
// Returns domain.ErrInvalidRating for anything but weak, good or great, and
// ErrNoCurrentCard when there is nothing to rate. Neither changes any state.
func (e *Engine) Rate(ctx context.Context, rating domain.Rating) error {
	if !rating.IsGraded() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidRating, string(rating))
	}

	log := logger.FromContextOrDefault(ctx, e.logger)

	e.mu.Lock()
	if e.current == nil {
		e.mu.Unlock()
		return ErrNoCurrentCard
	}
	stored, ok := e.repo.Find(e.current.ID)
	if !ok {
		e.mu.Unlock()
		return ErrNoCurrentCard
	}

	now := e.clock()
	updated, err := e.srs.CalculateNextReview(stored, rating, now)
	if err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to schedule card: %w", err)
	}
	if err := e.repo.Update(updated); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to record rating: %w", err)
	}

	log.Debug("card rated",
		slog.String("card_id", updated.ID.String()),
		slog.String("rating", rating.String()),
		slog.Time("next_due", updated.NextDue))

	e.persist(ctx)
	e.recomputeStats()

	var notes pending
	notes.add(events.CardRated, updated.ID, now)
	e.pickNext(now, &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// ResetCycle forgets which cards have been seen. The current card stays and
// counts as seen in the new cycle.
func (e *Engine) ResetCycle(ctx context.Context) {
	e.mu.Lock()
	e.resetCycle()
	if e.current != nil {
		e.markSeen(e.current.ID)
	}
	var notes pending
	notes.add(events.SessionChanged, e.currentID(), e.clock())
	e.mu.Unlock()

	e.emit(ctx, notes)
}

// SetSelectedLessons replaces the lesson filter. An empty list selects every lesson.
func (e *Engine) SetSelectedLessons(ctx context.Context, lessons []string) {
	e.changeFilter(ctx, func() {
		e.selectedLessons = lessonSet(lessons)
	})
}

// ToggleLesson adds lesson to the filter, or removes it if already selected.
func (e *Engine) ToggleLesson(ctx context.Context, lesson string) {
	e.changeFilter(ctx, func() {
		if _, ok := e.selectedLessons[lesson]; ok {
			delete(e.selectedLessons, lesson)
		} else {
			e.selectedLessons[lesson] = struct{}{}
		}
	})
}

// ClearLessonSelection removes the lesson filter.
func (e *Engine) ClearLessonSelection(ctx context.Context) {
	e.changeFilter(ctx, func() {
		e.selectedLessons = map[string]struct{}{}
	})
}

// SetShowOnlyDue switches between due-only and all-cards mode.
func (e *Engine) SetShowOnlyDue(ctx context.Context, onlyDue bool) {
	e.changeFilter(ctx, func() {
		e.showOnlyDue = onlyDue
	})
}

// ToggleShowOnlyDue flips the due-only mode.
func (e *Engine) ToggleShowOnlyDue(ctx context.Context) {
	e.changeFilter(ctx, func() {
		e.showOnlyDue = !e.showOnlyDue
	})
}

// changeFilter applies mutate, then resets the cycle and picks a card from
// the new pool.
func (e *Engine) changeFilter(ctx context.Context, mutate func()) {
	e.mu.Lock()
	mutate()
	e.resetCycle()
	var notes pending
	e.pickNext(e.clock(), &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
}

func (e *Engine) filter() srs.Filter {
	return srs.Filter{Lessons: e.selectedLessons, OnlyDue: e.showOnlyDue}
}

func (e *Engine) resetCycle() {
	e.seenInCycle = map[uuid.UUID]struct{}{}
	e.dueCardsSeen = map[uuid.UUID]struct{}{}
	e.cycleCompleted = false
}

// pickNext chooses the next card from the filtered pool. Callers hold e.mu.
func (e *Engine) pickNext(now time.Time, notes *pending) {
	pool := srs.FilterPool(e.repo.Cards(), e.filter(), now)
	e.cycleCompleted = false
	e.showAnswers = false

	if len(pool) == 0 {
		e.current = nil
		notes.add(events.SessionChanged, uuid.Nil, now)
		return
	}

	candidates := pool
	if !e.showOnlyDue {
		candidates = make([]*domain.Card, 0, len(pool))
		for _, card := range pool {
			if _, seen := e.seenInCycle[card.ID]; !seen {
				candidates = append(candidates, card)
			}
		}
		if len(candidates) == 0 {
			e.seenInCycle = map[uuid.UUID]struct{}{}
			e.cycleCompleted = true
			candidates = pool
		}
	}

	chosen := e.picker.Pick(candidates)
	e.current = chosen.Clone()

	e.markSeen(chosen.ID)

	if e.cycleCompleted {
		e.logger.Debug("study cycle completed", slog.Int("pool_size", len(pool)))
		notes.add(events.CycleCompleted, chosen.ID, now)
	}
	notes.add(events.SessionChanged, chosen.ID, now)
}

func (e *Engine) markSeen(id uuid.UUID) {
	if e.showOnlyDue {
		e.dueCardsSeen[id] = struct{}{}
	} else {
		e.seenInCycle[id] = struct{}{}
	}
}

func (e *Engine) progress(now time.Time) Progress {
	total := len(srs.FilterPool(e.repo.Cards(), e.filter(), now))
	if e.showOnlyDue {
		return Progress{Index: len(e.dueCardsSeen), Total: total}
	}
	return Progress{Index: len(e.seenInCycle), Total: total}
}

func (e *Engine) recomputeStats() {
	e.stats = domain.ComputeStats(e.repo.Cards())
}

// persist saves the deck. A failed save is logged and the in-memory state kept.
// The save ignores cancellation of ctx so a started mutation always reaches storage.
func (e *Engine) persist(ctx context.Context) {
	if err := e.repo.Save(context.WithoutCancel(ctx)); err != nil {
		logger.FromContextOrDefault(ctx, e.logger).Warn("failed to persist deck",
			slog.String("error", err.Error()))
	}
}

func (e *Engine) currentID() uuid.UUID {
	if e.current == nil {
		return uuid.Nil
	}
	return e.current.ID
}
