package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type QuestService struct {
	*base
}

// QuestEvent is one progress signal fed into the daily quests.
type QuestEvent struct {
	Type  engine.QuestType
	Value int
}

// Daily returns today's quests, generating them on the first check of the day.
func (s *QuestService) Daily(learnerID string) (*engine.DailyQuestState, error) {
	var state *engine.DailyQuestState
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		_, st, err := s.loadDaily(tx, learnerID)
		state = st
		return err
	})
	return state, err
}

// loadDaily reads today's record, creating it when missing.
func (s *QuestService) loadDaily(tx *gorm.DB, learnerID string) (*models.DailyQuest, *engine.DailyQuestState, error) {
	today := s.localNow()
	day := engine.DayKey(today)

	var row models.DailyQuest
	err := tx.Where("learner_id = ? AND date = ?", learnerID, day).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		generated, genErr := engine.GenerateDailyQuest(s.Catalog.QuestPool, today, s.Rand)
		if genErr != nil {
			return nil, nil, genErr
		}
		slots, mErr := json.Marshal(generated.Slots)
		if mErr != nil {
			return nil, nil, mErr
		}
		fresh := models.DailyQuest{LearnerID: learnerID, Date: day, Slots: datatypes.JSON(slots)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, nil, fmt.Errorf("create daily quest: %w", err)
		}
		err = tx.Where("learner_id = ? AND date = ?", learnerID, day).First(&row).Error
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load daily quest: %w", err)
	}

	state := &engine.DailyQuestState{Date: row.Date, AllCompleted: row.AllCompleted}
	if err := json.Unmarshal(row.Slots, &state.Slots); err != nil {
		return nil, nil, fmt.Errorf("decode daily quest %s: %w", row.ID, err)
	}
	return &row, state, nil
}

// applyDaily feeds events into today's quests and grants what they complete.
// The learner row must be locked by the caller.
func (s *QuestService) applyDaily(tx *gorm.DB, prog *models.LearnerProgress, events []QuestEvent) (*engine.DailyQuestState, int, error) {
	row, state, err := s.loadDaily(tx, prog.LearnerID)
	if err != nil {
		return nil, 0, err
	}

	earned := 0
	for _, ev := range events {
		var stars int
		*state, stars = engine.ApplyQuestProgress(*state, ev.Type, ev.Value, s.Catalog.AllCompleteBonus)
		earned += stars
	}

	slots, err := json.Marshal(state.Slots)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Model(row).Updates(map[string]interface{}{
		"slots":         datatypes.JSON(slots),
		"all_completed": state.AllCompleted,
	}).Error; err != nil {
		return nil, 0, fmt.Errorf("save daily quest: %w", err)
	}
	if err := grantStars(tx, prog, earned, models.RewardSourceQuest, state.Date); err != nil {
		return nil, 0, err
	}
	return state, earned, nil
}

// WeeklyView is the weekly challenge with its targets.
type WeeklyView struct {
	engine.WeeklyState
	Targets  engine.WeeklyConfig `json:"targets"`
	Complete bool                `json:"complete"`
}

func (s *QuestService) Weekly(learnerID string) (*WeeklyView, error) {
	now := s.localNow()
	var row models.WeeklyChallenge
	err := s.DB.Where("learner_id = ? AND week_start = ?", learnerID, engine.DayKey(engine.WeekStart(now))).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	state := s.weeklyState(&row, now)
	return &WeeklyView{
		WeeklyState: state,
		Targets:     s.Catalog.Weekly,
		Complete:    engine.WeeklyComplete(state, s.Catalog.Weekly),
	}, nil
}

func (s *QuestService) weeklyState(row *models.WeeklyChallenge, now time.Time) engine.WeeklyState {
	if row.ID == "" {
		return engine.WeeklyState{WeekStart: engine.WeekStart(now)}
	}
	start, err := time.ParseInLocation(time.DateOnly, row.WeekStart, s.Loc)
	if err != nil {
		start = engine.WeekStart(now)
	}
	return engine.WeeklyState{
		WeekStart:      start,
		Words:          row.Words,
		Quiz:           row.Quiz,
		Days:           row.Days,
		LastActiveDate: row.LastActiveDate,
		RewardClaimed:  row.RewardClaimed,
	}
}

// recordWeekly adds progress to this week's challenge. The learner row must be locked.
func (s *QuestService) recordWeekly(tx *gorm.DB, learnerID string, words, quiz int) (engine.WeeklyState, error) {
	now := s.localNow()
	week := engine.DayKey(engine.WeekStart(now))

	var row models.WeeklyChallenge
	err := tx.Where("learner_id = ? AND week_start = ?", learnerID, week).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.WeeklyState{}, err
	}
	state := engine.RecordWeeklyProgress(s.weeklyState(&row, now), words, quiz, now)

	row.LearnerID = learnerID
	row.WeekStart = week
	row.Words = state.Words
	row.Quiz = state.Quiz
	row.Days = state.Days
	row.LastActiveDate = state.LastActiveDate
	if err := tx.Save(&row).Error; err != nil {
		return engine.WeeklyState{}, fmt.Errorf("save weekly challenge: %w", err)
	}
	return state, nil
}

// WeeklyClaim is the payout of a claimed weekly challenge.
type WeeklyClaim struct {
	Stars   int    `json:"stars"`
	Chest   string `json:"chest,omitempty"`
	Balance int64  `json:"balance"`
}

// ClaimWeekly grants the weekly reward once all targets are met. It can only succeed once per week.
func (s *QuestService) ClaimWeekly(learnerID string) (*WeeklyClaim, error) {
	var claim *WeeklyClaim
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		now := s.localNow()
		var row models.WeeklyChallenge
		err = tx.Where("learner_id = ? AND week_start = ?", learnerID, engine.DayKey(engine.WeekStart(now))).First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cfg := s.Catalog.Weekly
		state, err := engine.ClaimWeekly(s.weeklyState(&row, now), cfg)
		if err != nil {
			return err
		}
		if err := tx.Model(&row).Update("reward_claimed", state.RewardClaimed).Error; err != nil {
			return err
		}
		if err := grantStars(tx, prog, cfg.RewardStars, models.RewardSourceWeekly, row.WeekStart); err != nil {
			return err
		}
		if cfg.RewardChest != "" {
			if err := addInventory(tx, learnerID, models.InventoryChest, cfg.RewardChest, 1); err != nil {
				return err
			}
		}
		claim = &WeeklyClaim{Stars: cfg.RewardStars, Chest: cfg.RewardChest, Balance: prog.Stars}
		log.Printf("🏆 [WEEKLY] %s claimed week %s (+%d stars, chest=%s)", learnerID, row.WeekStart, cfg.RewardStars, cfg.RewardChest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// PruneDailyQuests deletes daily quest rows older than retentionDays.
func (s *QuestService) PruneDailyQuests(retentionDays int) (int64, error) {
	cutoff := engine.DayKey(s.localNow().AddDate(0, 0, -retentionDays))
	res := s.DB.Where("date < ?", cutoff).Delete(&models.DailyQuest{})
	return res.RowsAffected, res.Error
}
