package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

func TestAdoptAndActivate(t *testing.T) {
	f := newFixture(t)

	first, err := f.Pets.Adopt("kid-1", "seed_ball", "")
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, "Seed Ball", first.Nickname)
	assert.Equal(t, engine.MaxVital, first.Hunger)
	assert.Equal(t, []string{"grass"}, first.Types)
	assert.Equal(t, "photosynthesis", first.Ability)
	assert.Equal(t, 50, first.NextLevelExp)

	second, err := f.Pets.Adopt("kid-1", "spirit_dog", "Rex")
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	_, err = f.Pets.Activate("kid-1", second.ID)
	require.NoError(t, err)
	active, err := f.Pets.Active("kid-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	var activeCount int64
	require.NoError(t, f.db.Model(&models.Pet{}).Where("learner_id = ? AND is_active = ?", "kid-1", true).Count(&activeCount).Error)
	assert.EqualValues(t, 1, activeCount)

	_, err = f.Pets.Adopt("kid-1", "unicorn", "")
	assert.ErrorIs(t, err, engine.ErrNotFound)
	_, err = f.Pets.Activate("kid-2", second.ID)
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestActiveWithoutPet(t *testing.T) {
	f := newFixture(t)
	_, err := f.Pets.Active("kid-1")
	assert.ErrorIs(t, err, engine.ErrNotFound)
}

func TestEvolveIsWriteOnce(t *testing.T) {
	f := newFixture(t)
	pet, err := f.Pets.Adopt("kid-1", "seed_ball", "")
	require.NoError(t, err)

	_, err = f.Pets.Evolve("kid-1", pet.ID, engine.PathA)
	require.ErrorIs(t, err, engine.ErrConflict)

	require.NoError(t, f.db.Model(&models.Pet{}).Where("id = ?", pet.ID).Update("exp", engine.ExpForLevel(30)).Error)
	_, err = f.Pets.Evolve("kid-1", pet.ID, "C")
	require.ErrorIs(t, err, engine.ErrValidation)

	evolved, err := f.Pets.Evolve("kid-1", pet.ID, engine.PathB)
	require.NoError(t, err)
	assert.Equal(t, "B", evolved.EvolutionPath)
	assert.Equal(t, engine.StageTeen, evolved.Stage)
	assert.False(t, evolved.NeedsEvolutionChoice)

	_, err = f.Pets.Evolve("kid-1", pet.ID, engine.PathA)
	assert.ErrorIs(t, err, engine.ErrConflict)

	badges, err := f.Badges.List("kid-1")
	require.NoError(t, err)
	codes := make([]string, len(badges))
	for i, b := range badges {
		codes[i] = b.Code
	}
	assert.Contains(t, codes, "evolved")
}

func TestVitalsDecayAndCare(t *testing.T) {
	f := newFixture(t)
	_, err := f.Pets.Adopt("kid-1", "spirit_dog", "")
	require.NoError(t, err)

	f.clock.Advance(10*time.Hour + 30*time.Minute)
	pet, err := f.Pets.Active("kid-1")
	require.NoError(t, err)
	// 2/h hunger, loyalty halves the 1/h happiness decay.
	assert.Equal(t, 80, pet.Hunger)
	assert.Equal(t, 95, pet.Happiness)
	assert.True(t, pet.VitalsAt.Equal(testStart.Add(10*time.Hour)))

	f.giveStars(t, "kid-1", 100)
	purchase, err := f.Shop.Buy("kid-1", "berry")
	require.NoError(t, err)
	require.NotNil(t, purchase.Pet)
	assert.Equal(t, engine.MaxVital, purchase.Pet.Hunger)
}
