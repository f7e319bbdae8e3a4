package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"gorm.io/gorm"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type QuizService struct {
	*base
	pets   *PetService
	quests *QuestService
	badges *BadgeService
}

// QuizAnswer is one answered word. Correct is a pointer so a missing value can be
// told apart from false.
type QuizAnswer struct {
	WordID  string `json:"word_id" validate:"required"`
	Correct *bool  `json:"correct" validate:"required"`
}

// QuizSubmission is a finished (or abandoned) quiz over one vocabulary file.
type QuizSubmission struct {
	FileID          string       `json:"file_id" validate:"required"`
	Category        string       `json:"category"`
	Difficulty      float64      `json:"difficulty"`
	BonusMultiplier float64      `json:"bonus_multiplier"`
	UseDoubleStars  bool         `json:"use_double_stars"`
	Abandoned       bool         `json:"abandoned"`
	Answers         []QuizAnswer `json:"answers" validate:"required,min=1,dive"`
}

// QuizResult is everything one submission changed.
type QuizResult struct {
	Reward       engine.RewardBreakdown  `json:"reward"`
	Balance      int64                   `json:"balance"`
	AttemptCount int                     `json:"attempt_count"`
	Reviewed     int                     `json:"reviewed"`
	Pet          *PetGrowth              `json:"pet,omitempty"`
	QuestStars   int                     `json:"quest_stars"`
	Quests       *engine.DailyQuestState `json:"quests"`
	Weekly       engine.WeeklyState      `json:"weekly"`
	NewBadges    []AwardedBadge          `json:"new_badges,omitempty"`
}

func (s *QuizService) validate(sub QuizSubmission) (engine.Category, error) {
	if sub.FileID == "" {
		return engine.Category{}, engine.Invalid("file_id", "is required")
	}
	if len(sub.Answers) == 0 {
		return engine.Category{}, engine.Invalid("answers", "at least one answer is required")
	}
	outcomes := make([]engine.WordOutcome, len(sub.Answers))
	for i, a := range sub.Answers {
		if a.WordID == "" {
			return engine.Category{}, engine.Invalid(fmt.Sprintf("answers[%d].word_id", i), "is required")
		}
		if a.Correct == nil {
			return engine.Category{}, engine.Invalid(fmt.Sprintf("answers[%d].correct", i), "must be true or false")
		}
		outcomes[i] = engine.WordOutcome{WordID: a.WordID, Correct: *a.Correct}
	}

	var cat engine.Category
	if sub.Category != "" {
		var ok bool
		if cat, ok = s.Catalog.CategoryByID(sub.Category); !ok {
			return engine.Category{}, engine.Invalid("category", "unknown category %q", sub.Category)
		}
	}
	err := engine.ValidateRewardInput(engine.RewardInput{
		Outcomes:           outcomes,
		CooldownMultiplier: 1,
		Difficulty:         sub.Difficulty,
		BonusMultiplier:    sub.BonusMultiplier,
	})
	return cat, err
}

// Submit scores a quiz. The SRS and attempt counters commit first as their own
// unit; the reward, pet, quest and badge updates then run under the learner lock.
func (s *QuizService) Submit(ctx context.Context, learnerID string, sub QuizSubmission) (*QuizResult, error) {
	cat, err := s.validate(sub)
	if err != nil {
		return nil, err
	}
	if sub.UseDoubleStars {
		left, err := countInventory(s.DB, learnerID, models.InventoryConsumable, engine.DoubleStarsItem)
		if err != nil {
			return nil, err
		}
		if left == 0 {
			return nil, engine.Conflict("no %s left", engine.DoubleStarsItem)
		}
	}

	var (
		outcomes []engine.WordOutcome
		reviewed int
	)
	err = s.withRetry(ctx, func() error {
		return s.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			outcomes, reviewed, err = recordAnswers(tx, learnerID, sub.Answers, s.now())
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	result := &QuizResult{Reviewed: reviewed}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}

		cooldown, multiplier, err := s.nextCooldown(tx, learnerID, sub.FileID)
		if err != nil {
			return err
		}
		result.AttemptCount = cooldown.AttemptCount

		if sub.UseDoubleStars {
			if err := consumeInventory(tx, learnerID, models.InventoryConsumable, engine.DoubleStarsItem); err != nil {
				return err
			}
		}

		pet, species, err := s.pets.activePet(tx, learnerID)
		if err != nil {
			return err
		}
		starBonus, expBonus, err := equippedBonuses(tx, s.Catalog, learnerID)
		if err != nil {
			return err
		}

		in := engine.RewardInput{
			Outcomes:           outcomes,
			CooldownMultiplier: multiplier,
			Abandoned:          sub.Abandoned,
			DoubleStars:        sub.UseDoubleStars,
			Difficulty:         sub.Difficulty,
			BonusMultiplier:    sub.BonusMultiplier,
			EquipmentStarBonus: starBonus,
			Category:           cat,
			Now:                s.localNow(),
		}
		if pet != nil {
			state := petState(pet)
			in.Companion = &engine.Companion{
				SpeciesID: pet.SpeciesID,
				Level:     state.Level,
				Stage:     state.Stage,
				Types:     engine.ElementalTypes(species, state),
			}
		}
		reward, err := engine.CalculateQuizReward(in, s.Rand)
		if err != nil {
			return err
		}
		result.Reward = reward
		if err := grantStars(tx, prog, reward.FinalStars, models.RewardSourceQuiz, sub.FileID); err != nil {
			return err
		}

		counters := map[string]int64{
			"correct_answers": int64(reward.Correct),
			"reviews_done":    int64(reviewed),
		}
		if !sub.Abandoned {
			counters["quizzes_completed"] = 1
		}
		if err := incrementCounters(tx, prog, counters); err != nil {
			return err
		}

		if pet != nil {
			ability := engine.AbilityFor(pet.SpeciesID).Effect(engine.AbilityContextFor(in))
			growth, err := s.pets.grantExp(tx, pet, species, engine.ExpGain(reward.Correct, expBonus, ability.ExpBonus))
			if err != nil {
				return err
			}
			result.Pet = &PetGrowth{
				PetID:                pet.ID,
				ExpGained:            growth.ExpGained,
				Exp:                  growth.Pet.Exp,
				Level:                growth.Pet.Level,
				Stage:                growth.Pet.Stage,
				LevelUp:              growth.LevelUp,
				Evolved:              growth.Evolved,
				NeedsEvolutionChoice: growth.NeedsEvolutionChoice,
			}
		}

		events := []QuestEvent{
			{Type: engine.QuestReviewCount, Value: reward.Total},
			{Type: engine.QuestCorrectStreak, Value: engine.LongestStreak(outcomes)},
		}
		if !sub.Abandoned {
			events = append(events,
				QuestEvent{Type: engine.QuestQuizCount, Value: 1},
				QuestEvent{Type: engine.QuestAccuracy, Value: int(math.Round(float64(reward.Correct) * 100 / float64(reward.Total)))},
			)
		}
		if result.Quests, result.QuestStars, err = s.quests.applyDaily(tx, prog, events); err != nil {
			return err
		}
		if result.Weekly, err = s.quests.recordWeekly(tx, learnerID, 0, reward.Total); err != nil {
			return err
		}

		unlocked, err := s.badges.AutoAwardBadges(tx, prog)
		if err != nil {
			return err
		}
		result.NewBadges = awardedNow(unlocked, s.now())
		result.Balance = prog.Stars
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📝 [QUIZ] %s scored %d/%d on %s → +%d stars (attempt %d, quests +%d)",
		learnerID, result.Reward.Correct, result.Reward.Total, sub.FileID, result.Reward.FinalStars, result.AttemptCount, result.QuestStars)
	return result, nil
}

// nextCooldown records this attempt on the file and returns the resulting multiplier.
func (s *QuizService) nextCooldown(tx *gorm.DB, learnerID, fileID string) (engine.CooldownState, float64, error) {
	var row models.QuizCooldown
	err := tx.Where("learner_id = ? AND file_id = ?", learnerID, fileID).First(&row).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.CooldownState{}, 0, err
	}

	var prev *engine.CooldownState
	if row.ID != "" {
		prev = &engine.CooldownState{
			AttemptCount:   row.AttemptCount,
			FirstAttemptAt: row.FirstAttemptAt,
			LastAttemptAt:  row.LastAttemptAt,
		}
	}
	next, multiplier := engine.NextCooldown(prev, s.now())

	row.LearnerID = learnerID
	row.FileID = fileID
	row.AttemptCount = next.AttemptCount
	row.FirstAttemptAt = next.FirstAttemptAt
	row.LastAttemptAt = next.LastAttemptAt
	if err := tx.Save(&row).Error; err != nil {
		return engine.CooldownState{}, 0, fmt.Errorf("save cooldown: %w", err)
	}
	return next, multiplier, nil
}
