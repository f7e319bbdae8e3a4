package models

import (
	"time"

	"gorm.io/gorm"
)

type InventoryKind string

const (
	InventoryChest      InventoryKind = "chest"
	InventoryConsumable InventoryKind = "consumable"
)

// InventoryItem is a stack of chests or consumables. The row is deleted when Quantity reaches 0.
type InventoryItem struct {
	ID        string        `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID string        `gorm:"uniqueIndex:idx_inventory_stack;not null" json:"learner_id"`
	Kind      InventoryKind `gorm:"uniqueIndex:idx_inventory_stack;size:16;not null" json:"kind"`
	ItemID    string        `gorm:"uniqueIndex:idx_inventory_stack;not null" json:"item_id"`
	Quantity  int           `gorm:"not null;default:0" json:"quantity"`
	Timestamps
}

func (i *InventoryItem) BeforeCreate(*gorm.DB) error {
	i.ID = ensureID(i.ID)
	return nil
}

type OwnedSticker struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID  string    `gorm:"uniqueIndex:idx_sticker_owner;not null" json:"learner_id"`
	StickerID  string    `gorm:"uniqueIndex:idx_sticker_owner;not null" json:"sticker_id"`
	AcquiredAt time.Time `gorm:"autoCreateTime" json:"acquired_at"`
}

func (s *OwnedSticker) BeforeCreate(*gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

type OwnedTitle struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID  string    `gorm:"uniqueIndex:idx_title_owner;not null" json:"learner_id"`
	TitleID    string    `gorm:"uniqueIndex:idx_title_owner;not null" json:"title_id"`
	AcquiredAt time.Time `gorm:"autoCreateTime" json:"acquired_at"`
}

func (t *OwnedTitle) BeforeCreate(*gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

// OwnedEquipment is a purchased equipment piece. At most one per slot is equipped.
type OwnedEquipment struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	LearnerID  string    `gorm:"uniqueIndex:idx_equipment_owner;not null" json:"learner_id"`
	ItemID     string    `gorm:"uniqueIndex:idx_equipment_owner;not null" json:"item_id"`
	Slot       string    `gorm:"size:16;not null" json:"slot"`
	Equipped   bool      `gorm:"not null;default:false" json:"equipped"`
	AcquiredAt time.Time `gorm:"autoCreateTime" json:"acquired_at"`
}

func (e *OwnedEquipment) BeforeCreate(*gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}
