package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type ProgressionService struct {
	*base
	badges *BadgeService
}

// EnsureProgressRecord ensures a LearnerProgress row exists (idempotent)
func (s *ProgressionService) EnsureProgressRecord(learnerID string) (*models.LearnerProgress, error) {
	var prog models.LearnerProgress
	err := s.DB.Where("learner_id = ?", learnerID).First(&prog).Error
	if err == nil {
		return &prog, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.LearnerProgress{LearnerID: learnerID}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("create progress for %s: %w", learnerID, err)
	}
	if err := s.DB.Where("learner_id = ?", learnerID).First(&prog).Error; err != nil {
		return nil, err
	}
	return &prog, nil
}

// GetProgress returns the balance, counters and collection of a learner.
func (s *ProgressionService) GetProgress(learnerID string) (*ProgressView, error) {
	prog, err := s.EnsureProgressRecord(learnerID)
	if err != nil {
		return nil, err
	}
	view := &ProgressView{
		LearnerProgress: *prog,
		CanSpin:         engine.CanSpinWheel(prog.LastWheelSpinAt, s.localNow()),
	}

	if view.Badges, err = s.badges.List(learnerID); err != nil {
		return nil, err
	}
	if err := s.DB.Where("learner_id = ?", learnerID).Order("kind, item_id").Find(&view.Inventory).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OwnedSticker{}).Where("learner_id = ?", learnerID).Order("sticker_id").Pluck("sticker_id", &view.Stickers).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.OwnedTitle{}).Where("learner_id = ?", learnerID).Order("title_id").Pluck("title_id", &view.Titles).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("learner_id = ?", learnerID).Order("slot").Find(&view.Equipment).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.MasteredWord{}).
		Where("learner_id = ? AND next_review_at <= ?", learnerID, s.now()).
		Count(&view.DueWords).Error; err != nil {
		return nil, err
	}
	return view, nil
}

// RewardHistory returns the learner's star ledger, newest first.
func (s *ProgressionService) RewardHistory(learnerID string, page, size int) (map[string]interface{}, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var totalItems int64
	if err := s.DB.Model(&models.RewardLog{}).Where("learner_id = ?", learnerID).Count(&totalItems).Error; err != nil {
		return nil, err
	}

	var entries []models.RewardLog
	if err := s.DB.Where("learner_id = ?", learnerID).
		Order("created_at DESC").
		Limit(size).Offset(offset).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	return map[string]interface{}{
		"entries":     entries,
		"page":        page,
		"size":        size,
		"total_items": totalItems,
		"total_pages": totalPages,
	}, nil
}

// Leaderboard ranks learners by lifetime stars. Ties share the order of their learner id.
func (s *ProgressionService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var rows []models.LearnerProgress
	if err := s.DB.Order("total_stars DESC, learner_id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, len(rows))
	for i, r := range rows {
		out[i] = LeaderboardEntry{Rank: i + 1, LearnerID: r.LearnerID, TotalStars: r.TotalStars}
	}
	return out, nil
}
