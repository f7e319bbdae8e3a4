package services

import (
	"time"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

// AwardedBadge is a badge a learner holds, joined with its catalog definition.
type AwardedBadge struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Rarity      string    `json:"rarity"`
	AwardedAt   time.Time `json:"awarded_at"`
}

func awardedNow(defs []engine.BadgeDef, at time.Time) []AwardedBadge {
	if len(defs) == 0 {
		return nil
	}
	out := make([]AwardedBadge, 0, len(defs))
	for _, d := range defs {
		out = append(out, AwardedBadge{Code: d.Code, Name: d.Name, Description: d.Description, Rarity: d.Rarity, AwardedAt: at})
	}
	return out
}

// PetView is a pet with everything derived from its species and level.
type PetView struct {
	models.Pet
	SpeciesName          string             `json:"species_name"`
	Stats                engine.BattleStats `json:"stats"`
	Types                []string           `json:"types"`
	Ability              string             `json:"ability"`
	NextLevelExp         int                `json:"next_level_exp"`
	NeedsEvolutionChoice bool               `json:"needs_evolution_choice"`
}

func newPetView(p *models.Pet, s engine.Species) *PetView {
	state := petState(p)
	next := 0
	if state.Level < engine.MaxPetLevel {
		next = engine.ExpForLevel(state.Level + 1)
	}
	return &PetView{
		Pet:                  *p,
		SpeciesName:          s.Name,
		Stats:                engine.ComputeBattleStats(s, state.Level),
		Types:                engine.ElementalTypes(s, state),
		Ability:              engine.AbilityFor(s.ID).Name,
		NextLevelExp:         next,
		NeedsEvolutionChoice: engine.NeedsEvolutionChoice(state, s),
	}
}

// PetGrowth reports what a quiz did to the active pet.
type PetGrowth struct {
	PetID                string `json:"pet_id"`
	ExpGained            int    `json:"exp_gained"`
	Exp                  int    `json:"exp"`
	Level                int    `json:"level"`
	Stage                int    `json:"stage"`
	LevelUp              bool   `json:"level_up"`
	Evolved              bool   `json:"evolved"`
	NeedsEvolutionChoice bool   `json:"needs_evolution_choice"`
}

// ProgressView is everything the learner dashboard shows.
type ProgressView struct {
	models.LearnerProgress
	Badges    []AwardedBadge          `json:"badges"`
	Inventory []models.InventoryItem  `json:"inventory"`
	Stickers  []string                `json:"stickers"`
	Titles    []string                `json:"titles"`
	Equipment []models.OwnedEquipment `json:"equipment"`
	DueWords  int64                   `json:"due_words"`
	CanSpin   bool                    `json:"can_spin_wheel"`
}

type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	LearnerID  string `json:"learner_id"`
	TotalStars int64  `json:"total_stars"`
}
