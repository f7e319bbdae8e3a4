package models

import (
	"time"

	"gorm.io/gorm"
)

// LearnerBadge is an awarded badge. Definitions live in the catalog.
type LearnerBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID string    `gorm:"uniqueIndex:idx_badge_owner;not null" json:"learner_id"`
	BadgeCode string    `gorm:"uniqueIndex:idx_badge_owner;not null" json:"badge_code"` // e.g., "first_steps"
	AwardedAt time.Time `gorm:"autoCreateTime" json:"awarded_at"`
}

func (b *LearnerBadge) BeforeCreate(*gorm.DB) error {
	b.ID = ensureID(b.ID)
	return nil
}
