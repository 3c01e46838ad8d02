package domain

import (
	"reflect"
	"testing"
)

func TestComputeStats(t *testing.T) {
	t.Parallel() // Enable parallel execution

	t.Run("empty deck", func(t *testing.T) {
		stats := ComputeStats(nil)
		if stats.Total != 0 || stats.Shown != 0 {
			t.Errorf("Expected zero stats, got %+v", stats)
		}
		if stats.Accuracy != 0 {
			t.Errorf("Expected accuracy 0 when nothing was shown, got %f", stats.Accuracy)
		}
	})

	t.Run("sums counters across the deck", func(t *testing.T) {
		a := NewCard("Math", "Q1", "A1")
		a.TimesShown, a.TimesWeak, a.TimesGood = 3, 1, 2
		b := NewCard("Math", "Q2", "A2")
		b.TimesShown, b.TimesGreat = 1, 1
		c := NewCard("Geo", "Q3", "A3")

		stats := ComputeStats([]*Card{a, b, c})

		if stats.Total != 3 {
			t.Errorf("Expected total 3, got %d", stats.Total)
		}
		if stats.Shown != 4 || stats.Weak != 1 || stats.Good != 2 || stats.Great != 1 {
			t.Errorf("Unexpected counters: %+v", stats)
		}
		if stats.Accuracy != 0.75 {
			t.Errorf("Expected accuracy 0.75, got %f", stats.Accuracy)
		}
		expected := map[string]int{"Math": 2, "Geo": 1}
		if !reflect.DeepEqual(stats.ByLesson, expected) {
			t.Errorf("Expected by-lesson %v, got %v", expected, stats.ByLesson)
		}
		if !reflect.DeepEqual(stats.Lessons(), []string{"Geo", "Math"}) {
			t.Errorf("Expected sorted lessons, got %v", stats.Lessons())
		}
	})

	t.Run("unreviewed cards give zero accuracy", func(t *testing.T) {
		stats := ComputeStats([]*Card{NewCard("L", "Q", "A")})
		if stats.Accuracy != 0 {
			t.Errorf("Expected accuracy 0, got %f", stats.Accuracy)
		}
	})
}
