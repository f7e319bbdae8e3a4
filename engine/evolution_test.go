package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSpecies = Species{
	ID:        "seed_ball",
	Name:      "Seed Ball",
	BaseType:  "grass",
	BranchA:   Branch{Name: "Bloom", Types: []string{"grass", "fire"}},
	BranchB:   Branch{Name: "Thorn", Types: []string{"grass", "poison"}},
	BaseStats: Stats{HP: 50, Attack: 10.5, Defense: 8},
	Growth:    Stats{HP: 2.5, Attack: 1.2, Defense: 0.9},
}

func TestLevelFromExp(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{149, 2},
		{150, 3},
		{ExpForLevel(30) - 1, 29},
		{ExpForLevel(30), 30},
		{ExpForLevel(100), 100},
		{1 << 30, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromExp(tt.exp), "exp %d", tt.exp)
	}
}

func TestExpForLevel_roundTrips(t *testing.T) {
	for level := 1; level <= MaxPetLevel; level++ {
		assert.Equal(t, level, LevelFromExp(ExpForLevel(level)))
	}
}

func TestStageFor(t *testing.T) {
	tests := []struct {
		level int
		path  EvolutionPath
		want  int
	}{
		{1, "", StageEgg},
		{9, PathA, StageEgg},
		{10, "", StageBaby},
		{45, "", StageBaby},
		{30, PathA, StageTeen},
		{59, PathB, StageTeen},
		{60, PathA, StageAdult},
		{100, PathB, StageFinal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StageFor(tt.level, tt.path), "level %d path %q", tt.level, tt.path)
	}
}

func TestDerive_isDeterministic(t *testing.T) {
	pet := PetState{SpeciesID: testSpecies.ID, Exp: 123456, Path: PathB}
	first := Derive(pet)
	second := Derive(first)
	assert.Equal(t, first, second)
	assert.Equal(t, 123456, pet.Exp)
}

func TestStage_neverDecreasesWithExp(t *testing.T) {
	for _, path := range []EvolutionPath{"", PathA, PathB} {
		prev := 0
		for exp := 0; exp <= ExpForLevel(MaxPetLevel)+500; exp += 97 {
			stage := Derive(PetState{Exp: exp, Path: path}).Stage
			require.GreaterOrEqual(t, stage, prev, "path %q exp %d", path, exp)
			prev = stage
		}
	}
}

func TestEvolutionChoice(t *testing.T) {
	pet := Derive(PetState{SpeciesID: testSpecies.ID, Exp: ExpForLevel(35)})
	require.Equal(t, 35, pet.Level)
	assert.Equal(t, StageBaby, pet.Stage)
	assert.True(t, NeedsEvolutionChoice(pet, testSpecies))

	pet, err := ChooseEvolutionPath(pet, testSpecies, PathA)
	require.NoError(t, err)
	assert.Equal(t, PathA, pet.Path)
	assert.Equal(t, StageTeen, pet.Stage)
	assert.False(t, NeedsEvolutionChoice(pet, testSpecies))

	pet.Exp = ExpForLevel(65)
	pet = Derive(pet)
	assert.Equal(t, 65, pet.Level)
	assert.Equal(t, StageAdult, pet.Stage)

	_, err = ChooseEvolutionPath(pet, testSpecies, PathB)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestChooseEvolutionPath_rejections(t *testing.T) {
	young := PetState{Exp: ExpForLevel(20)}
	_, err := ChooseEvolutionPath(young, testSpecies, PathA)
	assert.True(t, errors.Is(err, ErrConflict))

	_, err = ChooseEvolutionPath(PetState{Exp: ExpForLevel(40)}, testSpecies, "C")
	assert.True(t, errors.Is(err, ErrValidation))

	early := testSpecies
	early.EvolutionLevel = 20
	pet, err := ChooseEvolutionPath(young, early, PathB)
	require.NoError(t, err)
	assert.Equal(t, PathB, pet.Path)
	assert.Equal(t, StageBaby, pet.Stage, "branch stages still need level 30")
}

func TestExpGain(t *testing.T) {
	assert.Equal(t, 20, ExpGain(4, 0, 0))
	assert.Equal(t, 17, ExpGain(3, 10, 5))
	assert.Zero(t, ExpGain(0, 50, 50))
}

func TestApplyExp(t *testing.T) {
	pet := PetState{Exp: ExpForLevel(29)}
	res := ApplyExp(pet, testSpecies, 29*50)
	assert.Equal(t, 30, res.Pet.Level)
	assert.True(t, res.LevelUp)
	assert.False(t, res.Evolved)
	assert.True(t, res.NeedsEvolutionChoice)

	pet = PetState{Exp: ExpForLevel(59), Path: PathA}
	res = ApplyExp(pet, testSpecies, 59*50)
	assert.Equal(t, StageAdult, res.Pet.Stage)
	assert.True(t, res.Evolved)
	assert.False(t, res.NeedsEvolutionChoice)

	res = ApplyExp(pet, testSpecies, 0)
	assert.False(t, res.LevelUp)
	assert.Zero(t, res.ExpGained)
}

func TestComputeBattleStats(t *testing.T) {
	stats := ComputeBattleStats(testSpecies, 10)
	assert.Equal(t, BattleStats{HP: 75, Attack: 22, Defense: 17}, stats)
}

func TestElementalTypes(t *testing.T) {
	baby := Derive(PetState{Exp: ExpForLevel(35)})
	assert.Equal(t, []string{"grass"}, ElementalTypes(testSpecies, baby))

	teen, err := ChooseEvolutionPath(baby, testSpecies, PathA)
	require.NoError(t, err)
	assert.Equal(t, []string{"grass", "fire"}, ElementalTypes(testSpecies, teen))
}

func TestDecayVitals(t *testing.T) {
	start := Vitals{Hunger: 100, Happiness: 100, At: testNow}
	now := testNow.Add(3*time.Hour + 30*time.Minute)

	got := DecayVitals(start, now, Effect{})
	assert.Equal(t, 94, got.Hunger)
	assert.Equal(t, 97, got.Happiness)
	assert.Equal(t, testNow.Add(3*time.Hour), got.At)

	guarded := DecayVitals(start, now, AbilityFor("hard_crab").Effect(AbilityContext{}))
	assert.Equal(t, 97, guarded.Hunger)

	assert.Equal(t, start, DecayVitals(start, testNow.Add(59*time.Minute), Effect{}))
	assert.Equal(t, 0, DecayVitals(start, testNow.Add(200*time.Hour), Effect{}).Hunger)
}

func TestCare(t *testing.T) {
	v := Care(Vitals{Hunger: 90, Happiness: 40}, 30, 25)
	assert.Equal(t, MaxVital, v.Hunger)
	assert.Equal(t, 65, v.Happiness)
}
