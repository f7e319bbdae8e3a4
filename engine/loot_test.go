package engine

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := &Catalog{
		Species: []Species{testSpecies},
		Chests: []Chest{
			{ID: "bronze", Name: "Bronze Chest", Price: 50, Rewards: []RewardEntry{
				{Type: RewardStars, Weight: 70, Min: 5, Max: 15},
				{Type: RewardSticker, Weight: 25, Rarity: "common"},
				{Type: RewardSticker, Weight: 5, Rarity: "rare"},
			}},
			{ID: "silver", Name: "Silver Chest", Price: 120, Rewards: []RewardEntry{
				{Type: RewardStars, Weight: 1, Min: 20, Max: 40},
			}},
		},
		Stickers: []Collectible{
			{ID: "apple", Name: "Apple", Rarity: "common"},
			{ID: "pear", Name: "Pear", Rarity: "common"},
			{ID: "comet", Name: "Comet", Rarity: "rare"},
		},
		Titles: []Collectible{
			{ID: "word_wizard", Name: "Word Wizard", Rarity: "legendary"},
		},
		QuestPool: []QuestTemplate{{Type: QuestQuizCount, Target: 3, Reward: 10}},
		Weekly:    WeeklyConfig{RewardStars: 50, RewardChest: "silver"},
	}
	require.NoError(t, c.Prepare())
	return c
}

func TestPick_fallsBackToLastEntry(t *testing.T) {
	entries := []Weighted[string]{{Weight: 1, Item: "a"}, {Weight: 1, Item: "b"}}
	got, err := Pick(entries, &fakeRand{floats: []float64{1}})
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestPick_skipsZeroWeight(t *testing.T) {
	entries := []Weighted[string]{{Weight: 0, Item: "never"}, {Weight: 3, Item: "always"}}
	got, err := Pick(entries, &fakeRand{floats: []float64{0}})
	require.NoError(t, err)
	assert.Equal(t, "always", got)
}

func TestPick_rejectsBadTables(t *testing.T) {
	_, err := Pick[string](nil, &fakeRand{})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Pick([]Weighted[int]{{Weight: 0, Item: 1}}, &fakeRand{})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = Pick([]Weighted[int]{{Weight: -1, Item: 1}, {Weight: 2, Item: 2}}, &fakeRand{})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPick_frequenciesConverge(t *testing.T) {
	entries := []Weighted[string]{
		{Weight: 70, Item: "stars"},
		{Weight: 25, Item: "common"},
		{Weight: 5, Item: "rare"},
	}
	r := rand.New(rand.NewPCG(42, 7))
	const draws = 100000

	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		item, err := Pick(entries, r)
		require.NoError(t, err)
		counts[item]++
	}
	for _, e := range entries {
		assert.InDelta(t, e.Weight/100, float64(counts[e.Item])/draws, 0.01, e.Item)
	}
}

func TestRollTable_bronzeStarsDraw(t *testing.T) {
	c := testCatalog(t)
	bronze, ok := c.Chest("bronze")
	require.True(t, ok)

	for _, x := range []float64{0, 0.35, 0.6999} {
		p, err := RollTable(bronze.Rewards, c, Owned{}, &fakeRand{floats: []float64{x}, ints: []int{7}})
		require.NoError(t, err)
		assert.Equal(t, RewardStars, p.Type)
		assert.GreaterOrEqual(t, p.Stars, 5)
		assert.LessOrEqual(t, p.Stars, 15)
	}
}

func TestResolvePayout_starRangeIsInclusive(t *testing.T) {
	c := testCatalog(t)
	entry := RewardEntry{Type: RewardStars, Min: 5, Max: 15}

	low, err := ResolvePayout(entry, c, Owned{}, &fakeRand{ints: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, 5, low.Stars)

	high, err := ResolvePayout(entry, c, Owned{}, &fakeRand{ints: []int{10}})
	require.NoError(t, err)
	assert.Equal(t, 15, high.Stars)
}

func TestResolvePayout_collectibles(t *testing.T) {
	c := testCatalog(t)
	owned := Owned{Stickers: map[string]bool{"apple": true}, Titles: map[string]bool{"word_wizard": true}}

	tests := []struct {
		name      string
		entry     RewardEntry
		ints      []int
		wantID    string
		duplicate bool
		stars     int
	}{
		{"new common sticker", RewardEntry{Type: RewardSticker, Rarity: "common"}, []int{1}, "pear", false, 0},
		{"duplicate common sticker", RewardEntry{Type: RewardSticker, Rarity: "common"}, []int{0}, "apple", true, 5},
		{"rare sticker", RewardEntry{Type: RewardSticker, Rarity: "rare"}, []int{0}, "comet", false, 0},
		{"unknown rarity draws from all", RewardEntry{Type: RewardSticker, Rarity: "mythic"}, []int{2}, "comet", false, 0},
		{"duplicate legendary title", RewardEntry{Type: RewardTitle, Rarity: "legendary"}, []int{0}, "word_wizard", true, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePayout(tt.entry, c, owned, &fakeRand{ints: tt.ints})
			require.NoError(t, err)
			assert.Equal(t, tt.entry.Type, p.Type)
			assert.Equal(t, tt.wantID, p.ItemID)
			assert.Equal(t, tt.duplicate, p.Duplicate)
			assert.Equal(t, tt.stars, p.Stars)
		})
	}
}

func TestResolvePayout_chest(t *testing.T) {
	c := testCatalog(t)

	p, err := ResolvePayout(RewardEntry{Type: RewardChest, Chest: "silver"}, c, Owned{}, &fakeRand{})
	require.NoError(t, err)
	assert.Equal(t, "silver", p.Chest)

	_, err = ResolvePayout(RewardEntry{Type: RewardChest, Chest: "diamond"}, c, Owned{}, &fakeRand{})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = ResolvePayout(RewardEntry{Type: "pony"}, c, Owned{}, &fakeRand{})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestConsumeOne(t *testing.T) {
	left, remove, err := ConsumeOne(3)
	require.NoError(t, err)
	assert.Equal(t, 2, left)
	assert.False(t, remove)

	left, remove, err = ConsumeOne(1)
	require.NoError(t, err)
	assert.Zero(t, left)
	assert.True(t, remove)

	_, _, err = ConsumeOne(0)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestCanSpinWheel(t *testing.T) {
	assert.True(t, CanSpinWheel(nil, testNow))

	earlier := testNow.Add(-2 * time.Hour)
	assert.False(t, CanSpinWheel(&earlier, testNow))

	yesterday := time.Date(2024, time.March, 12, 23, 30, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2024, time.March, 13, 0, 30, 0, 0, time.UTC)
	assert.True(t, CanSpinWheel(&yesterday, justAfterMidnight))
}

func TestCanSpinWheel_usesCallerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	last := time.Date(2024, time.March, 12, 14, 0, 0, 0, time.UTC) // 23:00 JST
	now := time.Date(2024, time.March, 12, 16, 0, 0, 0, time.UTC)  // 01:00 JST next day

	assert.False(t, CanSpinWheel(&last, now))
	assert.True(t, CanSpinWheel(&last, now.In(tokyo)))
}
