package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DailyQuest holds one learner's quests for one calendar day. Slots is a JSON
// array of engine.QuestSlot.
type DailyQuest struct {
	ID           string         `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID    string         `gorm:"uniqueIndex:idx_daily_quest_day;not null" json:"learner_id"`
	Date         string         `gorm:"uniqueIndex:idx_daily_quest_day;size:10;not null;index" json:"date"` // YYYY-MM-DD
	Slots        datatypes.JSON `json:"slots"`
	AllCompleted bool           `gorm:"not null;default:false" json:"all_completed"`
	Timestamps
}

func (q *DailyQuest) BeforeCreate(*gorm.DB) error {
	q.ID = ensureID(q.ID)
	return nil
}

type WeeklyChallenge struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID      string `gorm:"uniqueIndex:idx_weekly_learner_week;not null" json:"learner_id"`
	WeekStart      string `gorm:"uniqueIndex:idx_weekly_learner_week;size:10;not null" json:"week_start"` // Monday, YYYY-MM-DD
	Words          int    `gorm:"not null;default:0" json:"words"`
	Quiz           int    `gorm:"not null;default:0" json:"quiz"`
	Days           int    `gorm:"not null;default:0" json:"days"`
	LastActiveDate string `gorm:"size:10" json:"last_active_date,omitempty"`
	RewardClaimed  bool   `gorm:"not null;default:false" json:"reward_claimed"`
	Timestamps
}

func (w *WeeklyChallenge) BeforeCreate(*gorm.DB) error {
	w.ID = ensureID(w.ID)
	return nil
}
