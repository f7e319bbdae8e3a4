package models

import (
	"time"

	"gorm.io/gorm"
)

// MasteredWord is the SRS record of one word. It exists only once the word is mastered.
type MasteredWord struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID      string    `gorm:"uniqueIndex:idx_mastered_learner_word;not null" json:"learner_id"`
	WordID         string    `gorm:"uniqueIndex:idx_mastered_learner_word;not null" json:"word_id"`
	Level          int       `gorm:"not null" json:"level"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewAt   time.Time `gorm:"index" json:"next_review_at"`
	ReviewCount    int       `gorm:"not null;default:0" json:"review_count"`
	CorrectStreak  int       `gorm:"not null;default:0" json:"correct_streak"`
	Timestamps
}

func (w *MasteredWord) BeforeCreate(*gorm.DB) error {
	w.ID = ensureID(w.ID)
	return nil
}

// WordAttemptStat counts every answer given for a word, mastered or not.
type WordAttemptStat struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID    string `gorm:"uniqueIndex:idx_attempt_learner_word;not null" json:"learner_id"`
	WordID       string `gorm:"uniqueIndex:idx_attempt_learner_word;not null" json:"word_id"`
	TotalCount   int    `gorm:"not null;default:0" json:"total_count"`
	CorrectCount int    `gorm:"not null;default:0" json:"correct_count"`
	Timestamps
}

func (s *WordAttemptStat) BeforeCreate(*gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

// QuizCooldown is the per learner and file attempt window.
type QuizCooldown struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID      string    `gorm:"uniqueIndex:idx_cooldown_learner_file;not null" json:"learner_id"`
	FileID         string    `gorm:"uniqueIndex:idx_cooldown_learner_file;not null" json:"file_id"`
	AttemptCount   int       `gorm:"not null" json:"attempt_count"`
	FirstAttemptAt time.Time `json:"first_attempt_at"`
	LastAttemptAt  time.Time `json:"last_attempt_at"`
}

func (c *QuizCooldown) BeforeCreate(*gorm.DB) error {
	c.ID = ensureID(c.ID)
	return nil
}
