package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardCounterNegative is returned when any review counter is below zero.
	ErrCardCounterNegative = errors.New("card review counters cannot be negative")

	// ErrCardCounterMismatch is returned when timesShown differs from the sum
	// of the per-rating counters.
	ErrCardCounterMismatch = errors.New("card timesShown must equal timesWeak + timesGood + timesGreat")
)

// Epoch is the due date given to new cards, so they are due immediately.
var Epoch = time.Unix(0, 0).UTC()

// Card is a single flashcard together with its review history and schedule.
type Card struct {
	ID         uuid.UUID `json:"id"`
	Lesson     string    `json:"lesson"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	TimesShown int       `json:"timesShown"`
	TimesGood  int       `json:"timesGood"`
	TimesGreat int       `json:"timesGreat"`
	TimesWeak  int       `json:"timesWeak"`
	LastRating Rating    `json:"lastRating"`
	NextDue    time.Time `json:"nextDue"`
}

// NewCard creates an unrated card with a fresh ID that is due immediately.
func NewCard(lesson, question, answer string) *Card {
	return &Card{
		ID:       uuid.New(),
		Lesson:   lesson,
		Question: question,
		Answer:   answer,
		NextDue:  Epoch,
	}
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.TimesShown < 0 || c.TimesGood < 0 || c.TimesGreat < 0 || c.TimesWeak < 0 {
		return ErrCardCounterNegative
	}

	if c.TimesShown != c.TimesGood+c.TimesGreat+c.TimesWeak {
		return ErrCardCounterMismatch
	}

	if !c.LastRating.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, string(c.LastRating))
	}

	return nil
}

// IsDue reports whether the card is scheduled at or before now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextDue.After(now)
}

// Clone returns a copy of the card that can be modified independently.
func (c *Card) Clone() *Card {
	clone := *c
	return &clone
}

// UpdateContent replaces the lesson and both sides of the card.
// Review counters and the schedule are left untouched.
func (c *Card) UpdateContent(lesson, question, answer string) {
	c.Lesson = lesson
	c.Question = question
	c.Answer = answer
}

// UnmarshalJSON decodes a card, accepting nextDue either as an RFC 3339
// string or as seconds since the Unix epoch.
func (c *Card) UnmarshalJSON(data []byte) error {
	type cardAlias Card
	aux := struct {
		*cardAlias
		NextDue json.RawMessage `json:"nextDue"`
	}{
		cardAlias: (*cardAlias)(c),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	due, err := parseTimestamp(aux.NextDue)
	if err != nil {
		return err
	}
	c.NextDue = due
	return nil
}

// parseTimestamp decodes a JSON timestamp. Missing or null values map to Epoch.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Epoch, nil
	}

	if raw[0] == '"' {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return time.Time{}, fmt.Errorf("%w: nextDue: %v", ErrInvalidFormat, err)
		}
		return t.UTC(), nil
	}

	var seconds float64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		return time.Time{}, fmt.Errorf("%w: nextDue must be a timestamp string or epoch seconds", ErrInvalidFormat)
	}
	whole := int64(seconds)
	nanos := int64((seconds - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nanos).UTC(), nil
}
