package engine

import (
	"math"
	"slices"
	"time"
)

// CooldownWindow is how long repeated attempts on one file keep decaying.
const CooldownWindow = 30 * time.Minute

const (
	MinDifficulty = 1.0
	MaxDifficulty = 3.0
	MinBonus      = 1.0
	MaxBonus      = 3.0

	strongTypeMultiplier = 1.3
	weakTypeMultiplier   = 0.7

	perfectBonus      = 5
	accuracyMinTotal  = 5
	highAccuracy      = 0.8
	highAccuracyBonus = 2
)

// cooldownMultipliers is indexed by attempt count within the window; later attempts pay nothing.
var cooldownMultipliers = map[int]float64{
	1: 1,
	2: 0.5,
	3: 0.25,
}

// CooldownState is the per learner and file attempt window.
type CooldownState struct {
	AttemptCount   int
	FirstAttemptAt time.Time
	LastAttemptAt  time.Time
}

// NextCooldown records an attempt at now. prev is nil for the first attempt on a file.
func NextCooldown(prev *CooldownState, now time.Time) (CooldownState, float64) {
	if prev == nil || now.Sub(prev.FirstAttemptAt) > CooldownWindow {
		return CooldownState{AttemptCount: 1, FirstAttemptAt: now, LastAttemptAt: now}, 1
	}
	next := *prev
	next.AttemptCount++
	next.LastAttemptAt = now
	return next, CooldownMultiplier(next.AttemptCount)
}

func CooldownMultiplier(attemptCount int) float64 {
	if m, ok := cooldownMultipliers[attemptCount]; ok {
		return m
	}
	return 0
}

// FamiliarityMultiplier decays the value of a correct answer by how often the word
// was already answered correctly and how well it is memorised (level 0 = never mastered).
func FamiliarityMultiplier(priorCorrect, level int) float64 {
	switch {
	case priorCorrect == 0:
		return 2
	case priorCorrect <= 2:
		return 1
	case priorCorrect <= 5 && level < 3:
		return 0.5
	default:
		return 0
	}
}

// AccuracyBonus rewards high accuracy. Quizzes shorter than accuracyMinTotal questions
// earn no bonus at all.
func AccuracyBonus(correct, total int) int {
	if total < accuracyMinTotal {
		return 0
	}
	accuracy := float64(correct) / float64(total)
	switch {
	case correct == total:
		return perfectBonus
	case accuracy >= highAccuracy:
		return highAccuracyBonus
	default:
		return 0
	}
}

// TypeMultiplier compares a companion's elemental types with a quiz category.
// Strong matches are checked first.
func TypeMultiplier(types []string, cat Category) float64 {
	for _, t := range types {
		if slices.Contains(cat.Strong, t) {
			return strongTypeMultiplier
		}
	}
	for _, t := range types {
		if slices.Contains(cat.Weak, t) {
			return weakTypeMultiplier
		}
	}
	return 1
}

// WordOutcome is one answered word of a submission, with its history before this attempt.
type WordOutcome struct {
	WordID       string
	Correct      bool
	PriorCorrect int
	Level        int
}

// Companion is the active pet as the reward calculator sees it.
type Companion struct {
	SpeciesID string
	Level     int
	Stage     int
	Types     []string
}

type RewardInput struct {
	Outcomes           []WordOutcome
	CooldownMultiplier float64
	Abandoned          bool
	DoubleStars        bool
	Difficulty         float64
	BonusMultiplier    float64
	EquipmentStarBonus float64
	Category           Category
	Companion          *Companion
	Now                time.Time
}

// RewardBreakdown keeps every intermediate value so callers can show the maths.
type RewardBreakdown struct {
	Correct            int     `json:"correct"`
	Total              int     `json:"total"`
	BaseStars          float64 `json:"base_stars"`
	AccuracyBonus      int     `json:"accuracy_bonus"`
	CooldownMultiplier float64 `json:"cooldown_multiplier"`
	AfterCooldown      int     `json:"after_cooldown"`
	TypeMultiplier     float64 `json:"type_multiplier"`
	Ability            Effect  `json:"-"`
	AbilityDoubled     bool    `json:"ability_doubled"`
	FinalStars         int     `json:"final_stars"`
}

// ValidateRewardInput rejects malformed submissions before anything is mutated.
func ValidateRewardInput(in RewardInput) error {
	if len(in.Outcomes) == 0 {
		return Invalid("answers", "at least one answer is required")
	}
	if in.Difficulty != 0 && (in.Difficulty < MinDifficulty || in.Difficulty > MaxDifficulty) {
		return Invalid("difficulty", "must be between %.0f and %.0f", MinDifficulty, MaxDifficulty)
	}
	if in.BonusMultiplier != 0 && (in.BonusMultiplier < MinBonus || in.BonusMultiplier > MaxBonus) {
		return Invalid("bonus_multiplier", "must be between %.0f and %.0f", MinBonus, MaxBonus)
	}
	if in.EquipmentStarBonus < 0 {
		return Invalid("equipment_star_bonus", "must not be negative")
	}
	if in.CooldownMultiplier < 0 || in.CooldownMultiplier > 1 {
		return Invalid("cooldown_multiplier", "must be between 0 and 1")
	}
	return nil
}

// LongestStreak is the longest run of consecutive correct outcomes.
func LongestStreak(outcomes []WordOutcome) int {
	best, run := 0, 0
	for _, o := range outcomes {
		if o.Correct {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}

// AbilityContextFor builds the context a companion's ability is evaluated against.
func AbilityContextFor(in RewardInput) AbilityContext {
	correct := 0
	for _, o := range in.Outcomes {
		if o.Correct {
			correct++
		}
	}
	ctx := AbilityContext{
		Correct:  correct,
		Total:    len(in.Outcomes),
		Streak:   LongestStreak(in.Outcomes),
		Category: in.Category.ID,
		Hour:     in.Now.Hour(),
	}
	if ctx.Total > 0 {
		ctx.Accuracy = float64(correct) / float64(ctx.Total)
	}
	if in.Companion != nil {
		ctx.Stage = in.Companion.Stage
		ctx.Level = in.Companion.Level
	}
	return ctx
}

func roundStars(v float64) int {
	return int(math.Round(v))
}

// CalculateQuizReward turns one submission into a star payout.
func CalculateQuizReward(in RewardInput, r Rand) (RewardBreakdown, error) {
	if err := ValidateRewardInput(in); err != nil {
		return RewardBreakdown{}, err
	}
	ctx := AbilityContextFor(in)
	b := RewardBreakdown{
		Correct:            ctx.Correct,
		Total:              ctx.Total,
		CooldownMultiplier: in.CooldownMultiplier,
		TypeMultiplier:     1,
	}

	for _, o := range in.Outcomes {
		if o.Correct {
			b.BaseStars += FamiliarityMultiplier(o.PriorCorrect, o.Level)
		}
	}
	if !in.Abandoned {
		b.AccuracyBonus = AccuracyBonus(b.Correct, b.Total)
	}

	stars := roundStars((b.BaseStars + float64(b.AccuracyBonus)) * in.CooldownMultiplier)
	b.AfterCooldown = stars

	if in.DoubleStars {
		stars *= 2
	}
	if in.Difficulty > 1 {
		stars = roundStars(float64(stars) * in.Difficulty)
	}
	if in.BonusMultiplier > 1 {
		stars = roundStars(float64(stars) * in.BonusMultiplier)
	}
	if in.EquipmentStarBonus > 0 {
		stars = roundStars(float64(stars) * (1 + in.EquipmentStarBonus/100))
	}

	// A fully cooled-down attempt earns nothing, companion included.
	if in.Companion != nil && stars > 0 {
		b.TypeMultiplier = TypeMultiplier(in.Companion.Types, in.Category)
		stars = roundStars(float64(stars) * b.TypeMultiplier)

		b.Ability = AbilityFor(in.Companion.SpeciesID).Effect(ctx)
		stars += b.Ability.FlatStars
		stars = roundStars(float64(stars) * b.Ability.starMultiplier())
		if b.Ability.DoubleChance > 0 && r.Float64() < b.Ability.DoubleChance {
			stars *= 2
			b.AbilityDoubled = true
		}
	}

	b.FinalStars = max(stars, 0)
	return b, nil
}
