package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rating is the user's self-assessed recall quality for a card.
// The zero value, RatingNone, marks a card that has never been reviewed.
type Rating string

// Possible rating values
const (
	RatingNone  Rating = ""
	RatingWeak  Rating = "weak"
	RatingGood  Rating = "good"
	RatingGreat Rating = "great"
)

// Ratings lists the ratings a user can submit, weakest first.
var Ratings = []Rating{RatingWeak, RatingGood, RatingGreat}

// IsGraded reports whether r is one of the ratings a review can produce.
func (r Rating) IsGraded() bool {
	switch r {
	case RatingWeak, RatingGood, RatingGreat:
		return true
	default:
		return false
	}
}

// IsValid reports whether r is a graded rating or RatingNone.
func (r Rating) IsValid() bool {
	return r == RatingNone || r.IsGraded()
}

// String returns the rating name, or "unrated" for RatingNone.
func (r Rating) String() string {
	if r == RatingNone {
		return "unrated"
	}
	return string(r)
}

// ParseRating converts user input into a graded rating.
// It accepts the full names as well as their first letter, case-insensitively.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weak", "w":
		return RatingWeak, nil
	case "good", "g":
		return RatingGood, nil
	case "great", "e":
		return RatingGreat, nil
	default:
		return RatingNone, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
}

// MarshalJSON encodes RatingNone as null and every other rating as its name.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r == RatingNone {
		return []byte("null"), nil
	}
	if !r.IsGraded() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, string(r))
	}
	return json.Marshal(string(r))
}

// UnmarshalJSON accepts null or one of the rating names.
func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RatingNone
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: rating must be a string or null", ErrInvalidFormat)
	}

	rating := Rating(s)
	if !rating.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	*r = rating
	return nil
}
