package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-pet-engine/models"
)

func TestEnsureProgressRecordIsIdempotent(t *testing.T) {
	f := newFixture(t)

	a, err := f.Progress.EnsureProgressRecord("kid-1")
	require.NoError(t, err)
	b, err := f.Progress.EnsureProgressRecord("kid-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestGetProgress(t *testing.T) {
	f := newFixture(t)
	_, err := f.Reviews.MarkMastered("kid-1", "apple")
	require.NoError(t, err)
	f.giveItem(t, "kid-1", models.InventoryChest, "gold", 1)

	view, err := f.Progress.GetProgress("kid-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.WordsMastered)
	assert.Len(t, view.Badges, 1)
	require.Len(t, view.Inventory, 1)
	assert.Equal(t, "gold", view.Inventory[0].ItemID)
	assert.Zero(t, view.DueWords)
	assert.True(t, view.CanSpin)
}

func TestRewardHistoryPagination(t *testing.T) {
	f := newFixture(t)
	for range 5 {
		f.giveStars(t, "kid-1", 1)
	}

	page, err := f.Progress.RewardHistory("kid-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page["entries"], 2)
	assert.EqualValues(t, 5, page["total_items"])
	assert.Equal(t, 3, page["total_pages"])

	page, err = f.Progress.RewardHistory("kid-1", 0, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, page["page"])
	assert.Equal(t, 20, page["size"])
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	f.giveStars(t, "kid-a", 10)
	f.giveStars(t, "kid-b", 30)
	f.giveStars(t, "kid-c", 20)

	board, err := f.Progress.Leaderboard(2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, LeaderboardEntry{Rank: 1, LearnerID: "kid-b", TotalStars: 30}, board[0])
	assert.Equal(t, "kid-c", board[1].LearnerID)
}
