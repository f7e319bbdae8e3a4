package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type BadgeService struct {
	*base
}

// AutoAwardBadges checks all catalog badges for a learner after a progress update.
// It must run inside the caller's transaction, after the learner row is locked.
func (s *BadgeService) AutoAwardBadges(tx *gorm.DB, prog *models.LearnerProgress) ([]engine.BadgeDef, error) {
	stats, err := s.learnerStats(tx, prog)
	if err != nil {
		return nil, err
	}

	var ownedCodes []string
	if err := tx.Model(&models.LearnerBadge{}).
		Where("learner_id = ?", prog.LearnerID).
		Pluck("badge_code", &ownedCodes).Error; err != nil {
		return nil, fmt.Errorf("load badges for %s: %w", prog.LearnerID, err)
	}
	owned := make(map[string]bool, len(ownedCodes))
	for _, code := range ownedCodes {
		owned[code] = true
	}

	unlocked := engine.NewlyUnlocked(s.Catalog.Badges, stats, owned)
	for _, b := range unlocked {
		if err := tx.Create(&models.LearnerBadge{LearnerID: prog.LearnerID, BadgeCode: b.Code}).Error; err != nil {
			return nil, fmt.Errorf("award badge %s: %w", b.Code, err)
		}
		if b.Title != "" {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.OwnedTitle{LearnerID: prog.LearnerID, TitleID: b.Title}).Error; err != nil {
				return nil, fmt.Errorf("grant title %s: %w", b.Title, err)
			}
		}
		log.Printf("🎖️ [BADGE] Badge awarded: %s → %s", b.Name, prog.LearnerID)
	}
	return unlocked, nil
}

// learnerStats collects every stat a badge threshold may reference.
func (s *BadgeService) learnerStats(tx *gorm.DB, prog *models.LearnerProgress) (map[string]int64, error) {
	var best struct {
		Level int64
		Stage int64
	}
	if err := tx.Model(&models.Pet{}).
		Select("COALESCE(MAX(level), 0) AS level, COALESCE(MAX(stage), 0) AS stage").
		Where("learner_id = ?", prog.LearnerID).
		Scan(&best).Error; err != nil {
		return nil, fmt.Errorf("load pet stats for %s: %w", prog.LearnerID, err)
	}
	return map[string]int64{
		engine.StatTotalStars:       prog.TotalStars,
		engine.StatWordsMastered:    prog.WordsMastered,
		engine.StatQuizzesCompleted: prog.QuizzesCompleted,
		engine.StatReviewsDone:      prog.ReviewsDone,
		engine.StatPetLevel:         best.Level,
		engine.StatPetStage:         best.Stage,
	}, nil
}

// List returns the learner's awarded badges with their catalog definitions.
func (s *BadgeService) List(learnerID string) ([]AwardedBadge, error) {
	var rows []models.LearnerBadge
	if err := s.DB.Where("learner_id = ?", learnerID).Order("awarded_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	defs := make(map[string]engine.BadgeDef, len(s.Catalog.Badges))
	for _, b := range s.Catalog.Badges {
		defs[b.Code] = b
	}

	out := make([]AwardedBadge, 0, len(rows))
	for _, r := range rows {
		d := defs[r.BadgeCode]
		out = append(out, AwardedBadge{
			Code:        r.BadgeCode,
			Name:        d.Name,
			Description: d.Description,
			Rarity:      d.Rarity,
			AwardedAt:   r.AwardedAt,
		})
	}
	return out, nil
}
