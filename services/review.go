package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type ReviewService struct {
	*base
	badges *BadgeService
	quests *QuestService
}

// MarkMastered creates the SRS record of a word at level 1.
func (s *ReviewService) MarkMastered(learnerID, wordID string) (*models.MasteredWord, error) {
	if wordID == "" {
		return nil, engine.Invalid("word_id", "is required")
	}
	var word *models.MasteredWord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.MasteredWord{}).
			Where("learner_id = ? AND word_id = ?", learnerID, wordID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return engine.Conflict("word %s is already mastered", wordID)
		}

		now := s.now()
		level, next := engine.FirstMastery(now)
		word = &models.MasteredWord{
			LearnerID:      learnerID,
			WordID:         wordID,
			Level:          level,
			LastReviewedAt: now,
			NextReviewAt:   next,
		}
		if err := tx.Create(word).Error; err != nil {
			return fmt.Errorf("create mastered word: %w", err)
		}
		if err := incrementCounters(tx, prog, map[string]int64{"words_mastered": 1}); err != nil {
			return err
		}
		if _, err := s.quests.recordWeekly(tx, learnerID, 1, 0); err != nil {
			return err
		}
		_, err = s.badges.AutoAwardBadges(tx, prog)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("📗 [SRS] %s mastered %s (next review %s)", learnerID, wordID, word.NextReviewAt.Format(time.DateOnly))
	return word, nil
}

// Review applies one standalone review outcome. Concurrent reviews of the same word
// are detected and the losing unit is re-run against the fresh record.
func (s *ReviewService) Review(ctx context.Context, learnerID, wordID string, correct bool) (*models.MasteredWord, error) {
	var word *models.MasteredWord
	err := s.withRetry(ctx, func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			rec, err := findMastered(tx, learnerID, wordID)
			if err != nil {
				return err
			}
			if rec == nil {
				return engine.NotFound("word %s is not mastered", wordID)
			}
			word, err = s.reviewWord(tx, rec, correct)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return word, nil
}

// reviewWord applies one outcome to the snapshot rec and credits the learner for it.
// A stale snapshot fails with a concurrent update and changes nothing.
func (s *ReviewService) reviewWord(tx *gorm.DB, rec *models.MasteredWord, correct bool) (*models.MasteredWord, error) {
	word, err := applyReview(tx, rec, correct, s.now())
	if err != nil {
		return nil, err
	}

	prog, err := lockLearner(tx, rec.LearnerID)
	if err != nil {
		return nil, err
	}
	if err := incrementCounters(tx, prog, map[string]int64{"reviews_done": 1}); err != nil {
		return nil, err
	}
	if _, _, err := s.quests.applyDaily(tx, prog, []QuestEvent{{Type: engine.QuestReviewCount, Value: 1}}); err != nil {
		return nil, err
	}
	if _, err := s.badges.AutoAwardBadges(tx, prog); err != nil {
		return nil, err
	}
	return word, nil
}

func findMastered(tx *gorm.DB, learnerID, wordID string) (*models.MasteredWord, error) {
	var rec models.MasteredWord
	err := tx.Where("learner_id = ? AND word_id = ?", learnerID, wordID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// applyReview writes the next SRS state only if rec still matches the stored row.
func applyReview(tx *gorm.DB, rec *models.MasteredWord, correct bool, now time.Time) (*models.MasteredWord, error) {
	next := engine.Review(engine.ReviewState{
		Level:          rec.Level,
		LastReviewedAt: rec.LastReviewedAt,
		NextReviewAt:   rec.NextReviewAt,
		ReviewCount:    rec.ReviewCount,
		CorrectStreak:  rec.CorrectStreak,
	}, correct, now)

	res := tx.Model(&models.MasteredWord{}).
		Where("id = ? AND level = ? AND review_count = ?", rec.ID, rec.Level, rec.ReviewCount).
		Updates(map[string]interface{}{
			"level":            next.Level,
			"last_reviewed_at": next.LastReviewedAt,
			"next_review_at":   next.NextReviewAt,
			"review_count":     next.ReviewCount,
			"correct_streak":   next.CorrectStreak,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update review of %s: %w", rec.WordID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, engine.ConcurrentUpdate("word %s changed during review", rec.WordID)
	}

	updated := *rec
	updated.Level = next.Level
	updated.LastReviewedAt = next.LastReviewedAt
	updated.NextReviewAt = next.NextReviewAt
	updated.ReviewCount = next.ReviewCount
	updated.CorrectStreak = next.CorrectStreak
	return &updated, nil
}

// recordAnswers runs the SRS and attempt-counter half of a quiz. It returns each
// answer with the history it had before this attempt and how many mastered words
// were reviewed.
func recordAnswers(tx *gorm.DB, learnerID string, answers []QuizAnswer, now time.Time) ([]engine.WordOutcome, int, error) {
	outcomes := make([]engine.WordOutcome, 0, len(answers))
	reviewed := 0
	for _, a := range answers {
		correct := *a.Correct

		var stat models.WordAttemptStat
		err := tx.Where("learner_id = ? AND word_id = ?", learnerID, a.WordID).First(&stat).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, err
		}
		outcome := engine.WordOutcome{WordID: a.WordID, Correct: correct, PriorCorrect: stat.CorrectCount}

		rec, err := findMastered(tx, learnerID, a.WordID)
		if err != nil {
			return nil, 0, err
		}
		if rec != nil {
			outcome.Level = rec.Level
			if _, err := applyReview(tx, rec, correct, now); err != nil {
				return nil, 0, err
			}
			reviewed++
		}

		correctInc := 0
		if correct {
			correctInc = 1
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "learner_id"}, {Name: "word_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_count":   gorm.Expr("word_attempt_stats.total_count + 1"),
				"correct_count": gorm.Expr("word_attempt_stats.correct_count + ?", correctInc),
				"updated_at":    now,
			}),
		}).Create(&models.WordAttemptStat{
			LearnerID:    learnerID,
			WordID:       a.WordID,
			TotalCount:   1,
			CorrectCount: correctInc,
		}).Error
		if err != nil {
			return nil, 0, fmt.Errorf("count attempt on %s: %w", a.WordID, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, reviewed, nil
}

// ResetWord deletes the SRS record of a word.
func (s *ReviewService) ResetWord(learnerID, wordID string) error {
	res := s.DB.Where("learner_id = ? AND word_id = ?", learnerID, wordID).Delete(&models.MasteredWord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return engine.NotFound("word %s is not mastered", wordID)
	}
	log.Printf("🔄 [SRS] %s reset %s", learnerID, wordID)
	return nil
}

// DueWords lists mastered words whose review time has come, most overdue first.
func (s *ReviewService) DueWords(learnerID string, limit int) ([]models.MasteredWord, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var words []models.MasteredWord
	err := s.DB.Where("learner_id = ? AND next_review_at <= ?", learnerID, s.now()).
		Order("next_review_at ASC").
		Limit(limit).
		Find(&words).Error
	return words, err
}
