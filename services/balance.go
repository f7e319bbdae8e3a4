package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

// lockLearner loads the learner's progress row with FOR UPDATE, creating it on first
// use. Every balance or inventory mutation calls it first inside its transaction, so
// units for one learner run one after another.
func lockLearner(tx *gorm.DB, learnerID string) (*models.LearnerProgress, error) {
	var prog models.LearnerProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("learner_id = ?", learnerID).
		First(&prog).Error
	if err == nil {
		return &prog, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lock learner %s: %w", learnerID, err)
	}

	fresh := models.LearnerProgress{LearnerID: learnerID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, fmt.Errorf("create progress for %s: %w", learnerID, err)
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("learner_id = ?", learnerID).
		First(&prog).Error; err != nil {
		return nil, fmt.Errorf("lock learner %s: %w", learnerID, err)
	}
	return &prog, nil
}

// grantStars credits stars and lifetime stars in one statement and records the ledger row.
func grantStars(tx *gorm.DB, prog *models.LearnerProgress, stars int, source models.RewardSource, ref string) error {
	if stars <= 0 {
		return nil
	}
	delta := int64(stars)
	if err := tx.Model(&models.LearnerProgress{}).
		Where("id = ?", prog.ID).
		Updates(map[string]interface{}{
			"stars":       gorm.Expr("stars + ?", delta),
			"total_stars": gorm.Expr("total_stars + ?", delta),
		}).Error; err != nil {
		return fmt.Errorf("grant %d stars to %s: %w", stars, prog.LearnerID, err)
	}
	prog.Stars += delta
	prog.TotalStars += delta

	log.Printf("⭐ [BALANCE] +%d stars → %s (source=%s ref=%s, balance=%d)", stars, prog.LearnerID, source, ref, prog.Stars)
	return tx.Create(&models.RewardLog{
		LearnerID: prog.LearnerID,
		Source:    source,
		Delta:     delta,
		Balance:   prog.Stars,
		Reference: ref,
	}).Error
}

// spendStars debits price only if the balance covers it; the check and the debit are
// one conditional UPDATE.
func spendStars(tx *gorm.DB, prog *models.LearnerProgress, price int, source models.RewardSource, ref string) error {
	if price <= 0 {
		return nil
	}
	res := tx.Model(&models.LearnerProgress{}).
		Where("id = ? AND stars >= ?", prog.ID, price).
		Update("stars", gorm.Expr("stars - ?", price))
	if res.Error != nil {
		return fmt.Errorf("debit %d stars from %s: %w", price, prog.LearnerID, res.Error)
	}
	if res.RowsAffected == 0 {
		return engine.Conflict("insufficient stars: have %d, need %d", prog.Stars, price)
	}
	prog.Stars -= int64(price)

	log.Printf("💸 [BALANCE] -%d stars ← %s (source=%s ref=%s, balance=%d)", price, prog.LearnerID, source, ref, prog.Stars)
	return tx.Create(&models.RewardLog{
		LearnerID: prog.LearnerID,
		Source:    source,
		Delta:     -int64(price),
		Balance:   prog.Stars,
		Reference: ref,
	}).Error
}

// incrementCounters bumps activity counters with SQL expressions.
func incrementCounters(tx *gorm.DB, prog *models.LearnerProgress, counters map[string]int64) error {
	updates := make(map[string]interface{}, len(counters))
	for column, n := range counters {
		if n != 0 {
			updates[column] = gorm.Expr(column+" + ?", n)
		}
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(&models.LearnerProgress{}).Where("id = ?", prog.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("update counters for %s: %w", prog.LearnerID, err)
	}
	prog.QuizzesCompleted += counters["quizzes_completed"]
	prog.WordsMastered += counters["words_mastered"]
	prog.ReviewsDone += counters["reviews_done"]
	prog.CorrectAnswers += counters["correct_answers"]
	return nil
}

// addInventory adds quantity to a stack, creating it when absent.
func addInventory(tx *gorm.DB, learnerID string, kind models.InventoryKind, itemID string, quantity int) error {
	item := models.InventoryItem{LearnerID: learnerID, Kind: kind, ItemID: itemID, Quantity: quantity}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "learner_id"}, {Name: "kind"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"quantity": gorm.Expr("inventory_items.quantity + ?", quantity)}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("add %s %s to inventory: %w", kind, itemID, err)
	}
	return nil
}

// consumeInventory removes one unit from a stack, deleting the row when it empties.
func consumeInventory(tx *gorm.DB, learnerID string, kind models.InventoryKind, itemID string) error {
	var item models.InventoryItem
	err := tx.Where("learner_id = ? AND kind = ? AND item_id = ?", learnerID, kind, itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Conflict("no %s %s left", itemID, kind)
	}
	if err != nil {
		return err
	}

	left, remove, err := engine.ConsumeOne(item.Quantity)
	if err != nil {
		return err
	}
	if remove {
		return tx.Delete(&item).Error
	}
	return tx.Model(&item).Update("quantity", left).Error
}

// countInventory returns the quantity of a stack, 0 when absent.
func countInventory(tx *gorm.DB, learnerID string, kind models.InventoryKind, itemID string) (int, error) {
	var item models.InventoryItem
	err := tx.Where("learner_id = ? AND kind = ? AND item_id = ?", learnerID, kind, itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return item.Quantity, err
}
