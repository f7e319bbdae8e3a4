package engine

// Stat keys a badge threshold may reference.
const (
	StatTotalStars       = "total_stars"
	StatWordsMastered    = "words_mastered"
	StatQuizzesCompleted = "quizzes_completed"
	StatReviewsDone      = "reviews_done"
	StatPetLevel         = "pet_level"
	StatPetStage         = "pet_stage"
)

// NewlyUnlocked returns the badges whose every threshold is met by stats and that
// are not in owned. A stat missing from stats counts as zero.
func NewlyUnlocked(badges []BadgeDef, stats map[string]int64, owned map[string]bool) []BadgeDef {
	var unlocked []BadgeDef
	for _, b := range badges {
		if owned[b.Code] {
			continue
		}
		if meetsThreshold(b.Threshold, stats) {
			unlocked = append(unlocked, b)
		}
	}
	return unlocked
}

func meetsThreshold(threshold map[string]int64, stats map[string]int64) bool {
	for key, required := range threshold {
		if stats[key] < required {
			return false
		}
	}
	return true
}
