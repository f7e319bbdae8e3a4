package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type ShopService struct {
	*base
	pets *PetService
}

// Purchase is the outcome of one shop order.
type Purchase struct {
	ItemID  string   `json:"item_id"`
	Kind    string   `json:"kind"`
	Price   int      `json:"price"`
	Balance int64    `json:"balance"`
	Pet     *PetView `json:"pet,omitempty"`
}

// saleItem is anything with a price: a shop item or a chest.
type saleItem struct {
	id    string
	kind  string
	price int
	item  engine.ShopItem
}

func (s *ShopService) lookup(itemID string) (saleItem, error) {
	if item, ok := s.Catalog.ShopItem(itemID); ok {
		return saleItem{id: item.ID, kind: string(item.Kind), price: item.Price, item: item}, nil
	}
	if chest, ok := s.Catalog.Chest(itemID); ok && chest.Price > 0 {
		return saleItem{id: chest.ID, kind: string(models.InventoryChest), price: chest.Price}, nil
	}
	return saleItem{}, engine.NotFound("shop item %q", itemID)
}

// Buy debits the (discounted) price and delivers the item. Food and toys are used
// on the active pet right away.
func (s *ShopService) Buy(learnerID, itemID string) (*Purchase, error) {
	sale, err := s.lookup(itemID)
	if err != nil {
		return nil, err
	}

	var purchase *Purchase
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		pet, species, err := s.pets.activePet(tx, learnerID)
		if err != nil {
			return err
		}

		kind := engine.ItemKind(sale.kind)
		if (kind == engine.ItemFood || kind == engine.ItemToy) && pet == nil {
			return engine.Conflict("no active pet to use %s on", sale.id)
		}
		if kind == engine.ItemEquipment {
			var owned int64
			if err := tx.Model(&models.OwnedEquipment{}).
				Where("learner_id = ? AND item_id = ?", learnerID, sale.id).
				Count(&owned).Error; err != nil {
				return err
			}
			if owned > 0 {
				return engine.Conflict("%s is already owned", sale.id)
			}
		}

		price := sale.price
		if pet != nil {
			price = engine.DiscountedPrice(price, passiveEffect(pet))
		}
		if err := spendStars(tx, prog, price, models.RewardSourceShop, sale.id); err != nil {
			return err
		}

		purchase = &Purchase{ItemID: sale.id, Kind: sale.kind, Price: price}
		switch {
		case sale.kind == string(models.InventoryChest):
			err = addInventory(tx, learnerID, models.InventoryChest, sale.id, 1)
		case kind == engine.ItemConsumable:
			err = addInventory(tx, learnerID, models.InventoryConsumable, sale.id, 1)
		case kind == engine.ItemFood, kind == engine.ItemToy:
			if err = s.pets.care(tx, pet, sale.item.Hunger, sale.item.Happiness); err == nil {
				purchase.Pet = newPetView(pet, species)
			}
		case kind == engine.ItemEquipment:
			err = tx.Create(&models.OwnedEquipment{LearnerID: learnerID, ItemID: sale.id, Slot: sale.item.Slot}).Error
		default:
			err = engine.Invalid("kind", "item %s has unknown kind %q", sale.id, sale.kind)
		}
		if err != nil {
			return err
		}
		purchase.Balance = prog.Stars
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🛒 [SHOP] %s bought %s for %d stars", learnerID, purchase.ItemID, purchase.Price)
	return purchase, nil
}

// Equip equips an owned piece, unequipping whatever held its slot.
func (s *ShopService) Equip(learnerID, itemID string) (*models.OwnedEquipment, error) {
	var piece models.OwnedEquipment
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockLearner(tx, learnerID); err != nil {
			return err
		}
		err := tx.Where("learner_id = ? AND item_id = ?", learnerID, itemID).First(&piece).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return engine.NotFound("equipment %s is not owned", itemID)
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&models.OwnedEquipment{}).
			Where("learner_id = ? AND slot = ? AND id <> ?", learnerID, piece.Slot, piece.ID).
			Update("equipped", false).Error; err != nil {
			return err
		}
		piece.Equipped = true
		return tx.Model(&piece).Update("equipped", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &piece, nil
}

// equippedBonuses sums the star and exp percentage bonuses of equipped pieces.
func equippedBonuses(tx *gorm.DB, c *engine.Catalog, learnerID string) (star, exp float64, err error) {
	var ids []string
	if err := tx.Model(&models.OwnedEquipment{}).
		Where("learner_id = ? AND equipped = ?", learnerID, true).
		Pluck("item_id", &ids).Error; err != nil {
		return 0, 0, err
	}
	for _, id := range ids {
		if item, ok := c.ShopItem(id); ok {
			star += item.StarBonus
			exp += item.ExpBonus
		}
	}
	return star, exp, nil
}
