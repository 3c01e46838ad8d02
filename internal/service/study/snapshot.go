package study

import (
	"maps"
	"sort"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Progress is the position within the current cycle or due session.
// Index can exceed Total in due-only mode once rated cards leave the due pool.
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// Snapshot is a copy of the published session state.
type Snapshot struct {
	// CurrentCard is the presented card, or nil when the pool is empty.
	CurrentCard *domain.Card `json:"currentCard"`

	// ShowAnswers reports whether the answer of CurrentCard is revealed.
	ShowAnswers bool `json:"showAnswers"`

	// SelectedLessons is the lesson filter in ascending order. Empty means all lessons.
	SelectedLessons []string `json:"selectedLessons"`

	// ShowOnlyDue reports whether only due cards are studied.
	ShowOnlyDue bool `json:"showOnlyDue"`

	// CycleCompleted is true right after the pick that started a new cycle.
	CycleCompleted bool `json:"cycleCompleted"`

	Progress Progress     `json:"progress"`
	Stats    domain.Stats `json:"stats"`
}

// Lessons returns every lesson label in the deck in ascending order.
func (s Snapshot) Lessons() []string {
	return s.Stats.Lessons()
}

func sortedLessons(set map[string]struct{}) []string {
	lessons := make([]string, 0, len(set))
	for lesson := range set {
		lessons = append(lessons, lesson)
	}
	sort.Strings(lessons)
	return lessons
}

func cloneStats(stats domain.Stats) domain.Stats {
	stats.ByLesson = maps.Clone(stats.ByLesson)
	if stats.ByLesson == nil {
		stats.ByLesson = map[string]int{}
	}
	return stats
}
