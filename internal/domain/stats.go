package domain

import "sort"

// Stats summarises review activity across a whole deck.
type Stats struct {
	Total    int            `json:"total"`
	ByLesson map[string]int `json:"byLesson"`
	Weak     int            `json:"weak"`
	Good     int            `json:"good"`
	Great    int            `json:"great"`
	Shown    int            `json:"shown"`
	Accuracy float64        `json:"accuracy"`
}

// ComputeStats derives deck statistics from scratch.
// Accuracy is (good+great)/shown, or 0 when no card has been shown.
func ComputeStats(cards []*Card) Stats {
	stats := Stats{
		Total:    len(cards),
		ByLesson: make(map[string]int),
	}

	for _, card := range cards {
		stats.ByLesson[card.Lesson]++
		stats.Weak += card.TimesWeak
		stats.Good += card.TimesGood
		stats.Great += card.TimesGreat
		stats.Shown += card.TimesShown
	}

	if stats.Shown > 0 {
		stats.Accuracy = float64(stats.Good+stats.Great) / float64(stats.Shown)
	}

	return stats
}

// Lessons returns the distinct lesson labels in ascending order.
func (s Stats) Lessons() []string {
	lessons := make([]string, 0, len(s.ByLesson))
	for lesson := range s.ByLesson {
		lessons = append(lessons, lesson)
	}
	sort.Strings(lessons)
	return lessons
}
