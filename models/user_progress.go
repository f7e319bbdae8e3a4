package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LearnerProgress is the learner's balance row and the lock every balance or
// inventory mutation takes first.
type LearnerProgress struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID string `gorm:"uniqueIndex;not null" json:"learner_id"` // links to profile service

	// Balance
	Stars      int64 `json:"stars" gorm:"not null;default:0"`
	TotalStars int64 `json:"total_stars" gorm:"not null;default:0;index"`

	// Activity counters
	QuizzesCompleted int64 `json:"quizzes_completed" gorm:"default:0"`
	WordsMastered    int64 `json:"words_mastered" gorm:"default:0"`
	ReviewsDone      int64 `json:"reviews_done" gorm:"default:0"`
	CorrectAnswers   int64 `json:"correct_answers" gorm:"default:0"`

	LastWheelSpinAt *time.Time `json:"last_wheel_spin_at,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (p *LearnerProgress) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
