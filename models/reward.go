package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardSource names what moved a learner's balance.
type RewardSource string

const (
	RewardSourceQuiz      RewardSource = "quiz"
	RewardSourceChest     RewardSource = "chest"
	RewardSourceWheel     RewardSource = "wheel"
	RewardSourceQuest     RewardSource = "daily_quest"
	RewardSourceWeekly    RewardSource = "weekly_challenge"
	RewardSourceShop      RewardSource = "shop"
	RewardSourceDuplicate RewardSource = "duplicate"
)

// RewardLog is the star ledger: one row per balance change.
type RewardLog struct {
	ID        string       `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID string       `gorm:"index:idx_reward_log_learner_time;not null" json:"learner_id"`
	Source    RewardSource `gorm:"size:24;not null" json:"source"`
	Delta     int64        `gorm:"not null" json:"delta"`
	Balance   int64        `gorm:"not null" json:"balance"` // stars after this change
	Reference string       `json:"reference,omitempty"`     // file id, chest type, item id...
	CreatedAt time.Time    `gorm:"index:idx_reward_log_learner_time" json:"created_at"`
}

func (l *RewardLog) BeforeCreate(*gorm.DB) error {
	l.ID = ensureID(l.ID)
	return nil
}
