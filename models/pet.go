package models

import (
	"time"

	"gorm.io/gorm"
)

// Pet is a learner's companion. Level and Stage are derived from Exp and
// EvolutionPath and stored for listing only.
type Pet struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID     string    `gorm:"index;not null" json:"learner_id"`
	SpeciesID     string    `gorm:"not null" json:"species_id"`
	Nickname      string    `gorm:"size:40" json:"nickname"`
	Exp           int       `gorm:"not null;default:0" json:"exp"`
	Level         int       `gorm:"not null;default:1" json:"level"`
	Stage         int       `gorm:"not null;default:1" json:"stage"`
	EvolutionPath string    `gorm:"size:1" json:"evolution_path,omitempty"` // "", "A" or "B"; write-once
	Hunger        int       `gorm:"not null" json:"hunger"`
	Happiness     int       `gorm:"not null" json:"happiness"`
	VitalsAt      time.Time `json:"vitals_at"`
	IsActive      bool      `gorm:"index;not null;default:false" json:"is_active"`
	Timestamps
}

func (p *Pet) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}
