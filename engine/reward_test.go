package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWords(n int) []WordOutcome {
	out := make([]WordOutcome, n)
	for i := range out {
		out[i] = WordOutcome{WordID: string(rune('a' + i)), Correct: true}
	}
	return out
}

// fourOfFive is 4 new correct words and one miss: base 8, accuracy bonus 2.
func fourOfFive() []WordOutcome {
	out := newWords(5)
	out[4].Correct = false
	return out
}

func TestNextCooldown(t *testing.T) {
	first := testNow
	state, m := NextCooldown(nil, first)
	assert.Equal(t, 1, state.AttemptCount)
	assert.Equal(t, 1.0, m)

	want := []float64{0.5, 0.25, 0, 0}
	for i, w := range want {
		state, m = NextCooldown(&state, first.Add(time.Duration(i+1)*5*time.Minute))
		assert.Equal(t, i+2, state.AttemptCount)
		assert.Equal(t, w, m, "attempt %d", i+2)
	}
	assert.Equal(t, first, state.FirstAttemptAt)

	state, m = NextCooldown(&state, first.Add(31*time.Minute))
	assert.Equal(t, 1, state.AttemptCount)
	assert.Equal(t, 1.0, m)
	assert.Equal(t, first.Add(31*time.Minute), state.FirstAttemptAt)
}

func TestNextCooldown_windowEdgeStillCounts(t *testing.T) {
	state, _ := NextCooldown(nil, testNow)
	state, m := NextCooldown(&state, testNow.Add(CooldownWindow))
	assert.Equal(t, 2, state.AttemptCount)
	assert.Equal(t, 0.5, m)
}

func TestFamiliarityMultiplier(t *testing.T) {
	tests := []struct {
		name         string
		priorCorrect int
		level        int
		want         float64
	}{
		{"first ever correct", 0, 0, 2},
		{"second correct", 1, 0, 1},
		{"third correct", 2, 5, 1},
		{"drilled but weakly memorised", 3, 2, 0.5},
		{"drilled upper band", 5, 0, 0.5},
		{"drilled and memorised", 3, 3, 0},
		{"over drilled", 6, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FamiliarityMultiplier(tt.priorCorrect, tt.level))
		})
	}
}

func TestAccuracyBonus(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int
		want           int
	}{
		{"perfect long quiz", 5, 5, 5},
		{"perfect short quiz gets neither bonus", 4, 4, 0},
		{"single question", 1, 1, 0},
		{"eighty percent", 4, 5, 2},
		{"below eighty", 7, 10, 0},
		{"empty", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AccuracyBonus(tt.correct, tt.total))
		})
	}
}

func TestTypeMultiplier(t *testing.T) {
	cat := Category{ID: "science", Strong: []string{"electric"}, Weak: []string{"fire", "electric_weak"}}

	assert.Equal(t, 1.3, TypeMultiplier([]string{"electric"}, cat))
	assert.Equal(t, 0.7, TypeMultiplier([]string{"fire"}, cat))
	assert.Equal(t, 1.3, TypeMultiplier([]string{"fire", "electric"}, cat), "strong wins over weak")
	assert.Equal(t, 1.0, TypeMultiplier([]string{"water"}, cat))
	assert.Equal(t, 1.0, TypeMultiplier(nil, cat))
}

func TestCalculateQuizReward(t *testing.T) {
	science := Category{ID: "science", Strong: []string{"electric"}, Weak: []string{"fire"}}

	tests := []struct {
		name    string
		in      RewardInput
		rand    *fakeRand
		want    int
		doubled bool
	}{
		{
			name: "first ever correct answer, single question",
			in:   RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1},
			want: 2,
		},
		{
			name: "five new words all correct",
			in:   RewardInput{Outcomes: newWords(5), CooldownMultiplier: 1},
			want: 15,
		},
		{
			name: "mixed familiarity",
			in: RewardInput{Outcomes: []WordOutcome{
				{WordID: "a", Correct: true},
				{WordID: "b", Correct: true, PriorCorrect: 2},
				{WordID: "c", Correct: true, PriorCorrect: 4, Level: 2},
				{WordID: "d", Correct: true, PriorCorrect: 4, Level: 3},
				{WordID: "e", Correct: true, PriorCorrect: 10},
				{WordID: "f", Correct: false},
			}, CooldownMultiplier: 1},
			want: 6,
		},
		{
			name: "half cooldown rounds",
			in:   RewardInput{Outcomes: newWords(5), CooldownMultiplier: 0.5},
			want: 8,
		},
		{
			name: "multipliers stack in order",
			in: RewardInput{
				Outcomes:           newWords(5),
				CooldownMultiplier: 1,
				DoubleStars:        true,
				Difficulty:         1.5,
				BonusMultiplier:    2,
				EquipmentStarBonus: 10,
			},
			want: 99,
		},
		{
			name: "abandoned quiz gets no accuracy bonus",
			in:   RewardInput{Outcomes: newWords(5), CooldownMultiplier: 1, Abandoned: true},
			want: 10,
		},
		{
			name: "strong type and category ability",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Category:           science,
				Companion:          &Companion{SpeciesID: "electric_mouse", Level: 12, Stage: StageBaby, Types: []string{"electric"}},
			},
			want: 14,
		},
		{
			name: "weak type",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Category:           science,
				Companion:          &Companion{SpeciesID: "hard_crab", Types: []string{"fire"}},
			},
			want: 7,
		},
		{
			name: "flat ability bonus",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Companion:          &Companion{SpeciesID: "jellyfish", Types: []string{"water"}},
			},
			want: 11,
		},
		{
			name: "ability double lands",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Companion:          &Companion{SpeciesID: "young_scale", Types: []string{"dragon"}},
			},
			rand:    &fakeRand{floats: []float64{0.05}},
			want:    20,
			doubled: true,
		},
		{
			name: "ability double misses",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Companion:          &Companion{SpeciesID: "young_scale", Types: []string{"dragon"}},
			},
			rand: &fakeRand{floats: []float64{0.5}},
			want: 10,
		},
		{
			name: "cooled down attempt pays nothing even with a companion",
			in: RewardInput{
				Outcomes:           newWords(5),
				CooldownMultiplier: 0,
				Companion:          &Companion{SpeciesID: "jellyfish"},
			},
			want: 0,
		},
		{
			name: "unknown species is neutral",
			in: RewardInput{
				Outcomes:           fourOfFive(),
				CooldownMultiplier: 1,
				Companion:          &Companion{SpeciesID: "missingno"},
			},
			want: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.rand
			if r == nil {
				r = &fakeRand{floats: []float64{0.99}}
			}
			got, err := CalculateQuizReward(tt.in, r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.FinalStars)
			assert.Equal(t, tt.doubled, got.AbilityDoubled)
		})
	}
}

func TestCalculateQuizReward_breakdown(t *testing.T) {
	got, err := CalculateQuizReward(RewardInput{Outcomes: newWords(5), CooldownMultiplier: 0.5}, &fakeRand{})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Correct)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 10.0, got.BaseStars)
	assert.Equal(t, 5, got.AccuracyBonus)
	assert.Equal(t, 8, got.AfterCooldown)
	assert.Equal(t, 1.0, got.TypeMultiplier)
}

func TestCalculateQuizReward_validation(t *testing.T) {
	tests := []struct {
		name  string
		in    RewardInput
		field string
	}{
		{"no answers", RewardInput{CooldownMultiplier: 1}, "answers"},
		{"difficulty too low", RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1, Difficulty: 0.5}, "difficulty"},
		{"difficulty too high", RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1, Difficulty: 4}, "difficulty"},
		{"bonus too high", RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1, BonusMultiplier: 5}, "bonus_multiplier"},
		{"negative equipment bonus", RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1, EquipmentStarBonus: -1}, "equipment_star_bonus"},
		{"cooldown out of range", RewardInput{Outcomes: newWords(1), CooldownMultiplier: 1.5}, "cooldown_multiplier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateQuizReward(tt.in, &fakeRand{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var engErr *Error
			require.True(t, errors.As(err, &engErr))
			assert.Equal(t, tt.field, engErr.Field)
		})
	}
}

func TestLongestStreak(t *testing.T) {
	outcomes := []WordOutcome{{Correct: true}, {Correct: true}, {}, {Correct: true}, {Correct: true}, {Correct: true}, {}}
	assert.Equal(t, 3, LongestStreak(outcomes))
	assert.Zero(t, LongestStreak(nil))
}
