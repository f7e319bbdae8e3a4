package engine

import "time"

const (
	MinReviewLevel = 1
	MaxReviewLevel = 6

	// fallbackIntervalDays applies to levels missing from the table.
	fallbackIntervalDays = 60
)

// reviewIntervals maps an SRS level to days until the next review.
var reviewIntervals = map[int]int{
	1: 1,
	2: 3,
	3: 7,
	4: 14,
	5: 30,
	6: 60,
}

// IntervalDays returns the review interval for level.
func IntervalDays(level int) int {
	if days, ok := reviewIntervals[level]; ok {
		return days
	}
	return fallbackIntervalDays
}

// AdvanceReview moves a word one level up on a correct answer, one down otherwise,
// and schedules the next review from now.
func AdvanceReview(currentLevel int, correct bool, now time.Time) (int, time.Time) {
	var newLevel int
	if correct {
		newLevel = min(currentLevel+1, MaxReviewLevel)
	} else {
		newLevel = max(currentLevel-1, MinReviewLevel)
	}
	return newLevel, now.AddDate(0, 0, IntervalDays(newLevel))
}

// FirstMastery is the transition applied when a word is mastered for the first time.
func FirstMastery(now time.Time) (int, time.Time) {
	return AdvanceReview(0, true, now)
}

// IsDue reports whether a word scheduled for nextReviewAt must be re-tested at now.
func IsDue(nextReviewAt, now time.Time) bool {
	return !nextReviewAt.After(now)
}

// ReviewState is the mutable part of a mastered word.
type ReviewState struct {
	Level          int
	LastReviewedAt time.Time
	NextReviewAt   time.Time
	ReviewCount    int
	CorrectStreak  int
}

// Review applies one review outcome to state and returns the new state.
func Review(state ReviewState, correct bool, now time.Time) ReviewState {
	next := state
	next.Level, next.NextReviewAt = AdvanceReview(state.Level, correct, now)
	next.LastReviewedAt = now
	next.ReviewCount++
	if correct {
		next.CorrectStreak++
	} else {
		next.CorrectStreak = 0
	}
	return next
}
