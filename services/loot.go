package services

import (
	"log"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type LootService struct {
	*base
}

// LootResult is one resolved chest open or wheel spin.
type LootResult struct {
	Payout    engine.Payout `json:"payout"`
	Balance   int64         `json:"balance"`
	Remaining *int          `json:"remaining,omitempty"` // chests of the opened type still owned
}

// OpenChest consumes one owned chest and grants a roll of its table.
func (s *LootService) OpenChest(learnerID, chestType string) (*LootResult, error) {
	chest, ok := s.Catalog.Chest(chestType)
	if !ok {
		return nil, engine.NotFound("chest type %q", chestType)
	}

	var result *LootResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		if err := consumeInventory(tx, learnerID, models.InventoryChest, chest.ID); err != nil {
			return err
		}
		payout, err := s.roll(tx, learnerID, chest.Rewards)
		if err != nil {
			return err
		}
		if err := s.applyPayout(tx, prog, payout, models.RewardSourceChest, chest.ID); err != nil {
			return err
		}
		left, err := countInventory(tx, learnerID, models.InventoryChest, chest.ID)
		if err != nil {
			return err
		}
		result = &LootResult{Payout: payout, Balance: prog.Stars, Remaining: &left}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🎁 [LOOT] %s opened %s → %s %s", learnerID, chest.ID, result.Payout.Type, describePayout(result.Payout))
	return result, nil
}

// SpinWheel grants one roll of the daily wheel. It succeeds once per calendar day.
func (s *LootService) SpinWheel(learnerID string) (*LootResult, error) {
	var result *LootResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		if !engine.CanSpinWheel(prog.LastWheelSpinAt, s.localNow()) {
			return engine.Conflict("wheel already spun today")
		}
		payout, err := s.roll(tx, learnerID, s.Catalog.Wheel)
		if err != nil {
			return err
		}
		now := s.now()
		if err := tx.Model(prog).Update("last_wheel_spin_at", now).Error; err != nil {
			return err
		}
		prog.LastWheelSpinAt = &now
		if err := s.applyPayout(tx, prog, payout, models.RewardSourceWheel, "wheel"); err != nil {
			return err
		}
		result = &LootResult{Payout: payout, Balance: prog.Stars}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🎡 [LOOT] %s spun the wheel → %s %s", learnerID, result.Payout.Type, describePayout(result.Payout))
	return result, nil
}

func (s *LootService) roll(tx *gorm.DB, learnerID string, table []engine.RewardEntry) (engine.Payout, error) {
	owned, err := ownedCollection(tx, learnerID)
	if err != nil {
		return engine.Payout{}, err
	}
	return engine.RollTable(table, s.Catalog, owned, s.Rand)
}

func ownedCollection(tx *gorm.DB, learnerID string) (engine.Owned, error) {
	var stickers, titles []string
	if err := tx.Model(&models.OwnedSticker{}).Where("learner_id = ?", learnerID).Pluck("sticker_id", &stickers).Error; err != nil {
		return engine.Owned{}, err
	}
	if err := tx.Model(&models.OwnedTitle{}).Where("learner_id = ?", learnerID).Pluck("title_id", &titles).Error; err != nil {
		return engine.Owned{}, err
	}
	owned := engine.Owned{
		Stickers: make(map[string]bool, len(stickers)),
		Titles:   make(map[string]bool, len(titles)),
	}
	for _, id := range stickers {
		owned.Stickers[id] = true
	}
	for _, id := range titles {
		owned.Titles[id] = true
	}
	return owned, nil
}

// applyPayout grants a resolved payout. Duplicates pay their star value instead.
func (s *LootService) applyPayout(tx *gorm.DB, prog *models.LearnerProgress, p engine.Payout, source models.RewardSource, ref string) error {
	switch p.Type {
	case engine.RewardStars:
		return grantStars(tx, prog, p.Stars, source, ref)
	case engine.RewardSticker, engine.RewardTitle:
		if p.Duplicate {
			return grantStars(tx, prog, p.Stars, models.RewardSourceDuplicate, p.ItemID)
		}
		var row interface{} = &models.OwnedSticker{LearnerID: prog.LearnerID, StickerID: p.ItemID}
		if p.Type == engine.RewardTitle {
			row = &models.OwnedTitle{LearnerID: prog.LearnerID, TitleID: p.ItemID}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
	case engine.RewardChest:
		return addInventory(tx, prog.LearnerID, models.InventoryChest, p.Chest, 1)
	}
	return engine.Invalid("type", "unknown payout type %q", p.Type)
}

func describePayout(p engine.Payout) string {
	switch {
	case p.Chest != "":
		return p.Chest
	case p.ItemID != "" && p.Duplicate:
		return p.ItemID + " (duplicate)"
	case p.ItemID != "":
		return p.ItemID
	}
	return strconv.Itoa(p.Stars)
}
