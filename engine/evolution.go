package engine

import (
	"math"
	"slices"
	"time"
)

const (
	MaxPetLevel           = 100
	DefaultEvolutionLevel = 30

	// expPerLevelStep is the cost multiplier: leaving level L costs L*expPerLevelStep.
	expPerLevelStep = 50
	expPerCorrect   = 5
)

const (
	StageEgg   = 1
	StageBaby  = 2
	StageTeen  = 3
	StageAdult = 4
	StageFinal = 5
)

// sharedStages apply before a path is chosen; branchStages after. Both descend by level.
var (
	sharedStages = []stageThreshold{{10, StageBaby}, {1, StageEgg}}
	branchStages = []stageThreshold{{100, StageFinal}, {60, StageAdult}, {30, StageTeen}}
)

type stageThreshold struct {
	level int
	stage int
}

// PetState is the snapshot of a pet the growth engine reads and produces.
type PetState struct {
	SpeciesID string
	Exp       int
	Level     int
	Stage     int
	Path      EvolutionPath
}

// GrowthResult describes what a single exp grant did to a pet.
type GrowthResult struct {
	Pet                  PetState
	ExpGained            int
	LevelUp              bool
	Evolved              bool
	NeedsEvolutionChoice bool
}

// LevelFromExp walks cumulative exp through the level cost curve, starting at level 1.
func LevelFromExp(exp int) int {
	level := 1
	remaining := exp
	for level < MaxPetLevel && remaining >= level*expPerLevelStep {
		remaining -= level * expPerLevelStep
		level++
	}
	return level
}

// ExpForLevel is the cumulative exp at which level is reached.
func ExpForLevel(level int) int {
	level = min(max(level, 1), MaxPetLevel)
	return expPerLevelStep * level * (level - 1) / 2
}

// StageFor is a pure function of level and chosen path.
func StageFor(level int, path EvolutionPath) int {
	if path.Valid() {
		for _, t := range branchStages {
			if level >= t.level {
				return t.stage
			}
		}
	}
	for _, t := range sharedStages {
		if level >= t.level {
			return t.stage
		}
	}
	return StageEgg
}

func evolutionLevel(s Species) int {
	if s.EvolutionLevel > 0 {
		return s.EvolutionLevel
	}
	return DefaultEvolutionLevel
}

// NeedsEvolutionChoice reports whether the pet may now pick branch A or B.
func NeedsEvolutionChoice(pet PetState, s Species) bool {
	return pet.Path == "" && pet.Stage <= StageBaby && pet.Level >= evolutionLevel(s)
}

// Derive recomputes level and stage from exp and path.
func Derive(pet PetState) PetState {
	pet.Level = LevelFromExp(pet.Exp)
	pet.Stage = StageFor(pet.Level, pet.Path)
	return pet
}

// ChooseEvolutionPath records path on pet. The choice is write-once.
func ChooseEvolutionPath(pet PetState, s Species, path EvolutionPath) (PetState, error) {
	if !path.Valid() {
		return pet, Invalid("path", "evolution path must be A or B, got %q", path)
	}
	pet = Derive(pet)
	if pet.Path != "" {
		return pet, Conflict("evolution path %s already chosen", pet.Path)
	}
	if pet.Level < evolutionLevel(s) {
		return pet, Conflict("pet is level %d, evolution unlocks at level %d", pet.Level, evolutionLevel(s))
	}
	pet.Path = path
	pet.Stage = StageFor(pet.Level, path)
	return pet, nil
}

// ExpGain converts correct answers into pet exp, boosted by equipment and ability percentages.
func ExpGain(correctCount int, equipmentExpBonus, abilityExpBonus float64) int {
	if correctCount <= 0 {
		return 0
	}
	return int(math.Round(float64(correctCount) * expPerCorrect * (1 + (equipmentExpBonus+abilityExpBonus)/100)))
}

// ApplyExp adds gain to pet and reports level and stage transitions.
func ApplyExp(pet PetState, s Species, gain int) GrowthResult {
	before := Derive(pet)
	after := before
	if gain > 0 {
		after.Exp += gain
	}
	after = Derive(after)
	return GrowthResult{
		Pet:                  after,
		ExpGained:            max(gain, 0),
		LevelUp:              after.Level > before.Level,
		Evolved:              after.Stage > before.Stage,
		NeedsEvolutionChoice: NeedsEvolutionChoice(after, s),
	}
}

// BattleStats are the derived integer combat stats of a pet.
type BattleStats struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

func ComputeBattleStats(s Species, level int) BattleStats {
	stat := func(base, growth float64) int {
		return int(math.Floor(base + float64(level)*growth))
	}
	return BattleStats{
		HP:      stat(s.BaseStats.HP, s.Growth.HP),
		Attack:  stat(s.BaseStats.Attack, s.Growth.Attack),
		Defense: stat(s.BaseStats.Defense, s.Growth.Defense),
	}
}

// ElementalTypes are the types matched against quiz categories.
func ElementalTypes(s Species, pet PetState) []string {
	if pet.Stage < StageTeen || !pet.Path.Valid() {
		return []string{s.BaseType}
	}
	return slices.Clone(s.Branch(pet.Path).Types)
}

const (
	MaxVital = 100

	hungerPerHour    = 2.0
	happinessPerHour = 1.0
)

// Vitals are hunger and happiness, both decaying from MaxVital toward 0.
type Vitals struct {
	Hunger    int
	Happiness int
	// At is the instant the values were last settled.
	At time.Time
}

// DecayVitals settles whole elapsed hours since v.At. The remainder of a partial
// hour is kept by advancing At only by the hours consumed.
func DecayVitals(v Vitals, now time.Time, e Effect) Vitals {
	if !now.After(v.At) {
		return v
	}
	hours := int(now.Sub(v.At) / time.Hour)
	if hours == 0 {
		return v
	}
	hungerLoss := int(math.Floor(float64(hours) * hungerPerHour * e.hungerRate()))
	happinessLoss := int(math.Floor(float64(hours) * happinessPerHour * e.happinessRate()))
	return Vitals{
		Hunger:    max(v.Hunger-hungerLoss, 0),
		Happiness: max(v.Happiness-happinessLoss, 0),
		At:        v.At.Add(time.Duration(hours) * time.Hour),
	}
}

// Care raises vitals by the amounts an item restores, capped at MaxVital.
func Care(v Vitals, hunger, happiness int) Vitals {
	v.Hunger = min(v.Hunger+max(hunger, 0), MaxVital)
	v.Happiness = min(v.Happiness+max(happiness, 0), MaxVital)
	return v
}
