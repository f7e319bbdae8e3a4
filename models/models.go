package models

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&LearnerProgress{},
		&MasteredWord{},
		&WordAttemptStat{},
		&QuizCooldown{},
		&Pet{},
		&InventoryItem{},
		&OwnedSticker{},
		&OwnedTitle{},
		&OwnedEquipment{},
		&DailyQuest{},
		&WeeklyChallenge{},
		&LearnerBadge{},
		&RewardLog{},
	}
}
