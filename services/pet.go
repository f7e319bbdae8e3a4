package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/models"
)

type PetService struct {
	*base
	badges *BadgeService
}

func petState(p *models.Pet) engine.PetState {
	return engine.PetState{
		SpeciesID: p.SpeciesID,
		Exp:       p.Exp,
		Level:     p.Level,
		Stage:     p.Stage,
		Path:      engine.EvolutionPath(p.EvolutionPath),
	}
}

// passiveEffect is the part of an ability that does not depend on a quiz.
func passiveEffect(p *models.Pet) engine.Effect {
	return engine.AbilityFor(p.SpeciesID).Effect(engine.AbilityContext{Level: p.Level, Stage: p.Stage})
}

// Adopt hatches a new pet. A learner's first pet becomes the active one.
func (s *PetService) Adopt(learnerID, speciesID, nickname string) (*PetView, error) {
	species, ok := s.Catalog.SpeciesByID(speciesID)
	if !ok {
		return nil, engine.NotFound("species %q", speciesID)
	}
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		nickname = species.Name
	}

	var pet models.Pet
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockLearner(tx, learnerID); err != nil {
			return err
		}
		var owned int64
		if err := tx.Model(&models.Pet{}).Where("learner_id = ?", learnerID).Count(&owned).Error; err != nil {
			return err
		}
		state := engine.Derive(engine.PetState{SpeciesID: speciesID})
		pet = models.Pet{
			LearnerID: learnerID,
			SpeciesID: speciesID,
			Nickname:  nickname,
			Exp:       state.Exp,
			Level:     state.Level,
			Stage:     state.Stage,
			Hunger:    engine.MaxVital,
			Happiness: engine.MaxVital,
			VitalsAt:  s.now(),
			IsActive:  owned == 0,
		}
		return tx.Create(&pet).Error
	})
	if err != nil {
		return nil, err
	}
	log.Printf("🥚 [PET] %s adopted %s (%s)", learnerID, pet.Nickname, speciesID)
	return newPetView(&pet, species), nil
}

// Active returns the active pet with its vitals settled to now.
func (s *PetService) Active(learnerID string) (*PetView, error) {
	var view *PetView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		pet, species, err := s.activePet(tx, learnerID)
		if err != nil {
			return err
		}
		if pet == nil {
			return engine.NotFound("learner %s has no active pet", learnerID)
		}
		if err := s.settleVitals(tx, pet); err != nil {
			return err
		}
		view = newPetView(pet, species)
		return nil
	})
	return view, err
}

// Activate makes petID the learner's only active pet.
func (s *PetService) Activate(learnerID, petID string) (*PetView, error) {
	var view *PetView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockLearner(tx, learnerID); err != nil {
			return err
		}
		pet, species, err := s.ownedPet(tx, learnerID, petID)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Pet{}).
			Where("learner_id = ? AND id <> ?", learnerID, pet.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(pet).Update("is_active", true).Error; err != nil {
			return err
		}
		pet.IsActive = true
		view = newPetView(pet, species)
		return nil
	})
	return view, err
}

// Evolve records the learner's branch choice for a pet. The choice is permanent.
func (s *PetService) Evolve(learnerID, petID string, path engine.EvolutionPath) (*PetView, error) {
	var view *PetView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prog, err := lockLearner(tx, learnerID)
		if err != nil {
			return err
		}
		pet, species, err := s.ownedPet(tx, learnerID, petID)
		if err != nil {
			return err
		}
		next, err := engine.ChooseEvolutionPath(petState(pet), species, path)
		if err != nil {
			return err
		}
		pet.EvolutionPath = string(next.Path)
		pet.Level = next.Level
		pet.Stage = next.Stage
		if err := tx.Model(pet).Updates(map[string]interface{}{
			"evolution_path": pet.EvolutionPath,
			"level":          pet.Level,
			"stage":          pet.Stage,
		}).Error; err != nil {
			return err
		}
		if _, err := s.badges.AutoAwardBadges(tx, prog); err != nil {
			return err
		}
		log.Printf("✨ [PET] %s evolved along path %s (stage %d)", pet.Nickname, path, pet.Stage)
		view = newPetView(pet, species)
		return nil
	})
	return view, err
}

// activePet returns the learner's active pet, or nil when there is none.
func (s *PetService) activePet(tx *gorm.DB, learnerID string) (*models.Pet, engine.Species, error) {
	var pet models.Pet
	err := tx.Where("learner_id = ? AND is_active = ?", learnerID, true).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.Species{}, nil
	}
	if err != nil {
		return nil, engine.Species{}, err
	}
	species, ok := s.Catalog.SpeciesByID(pet.SpeciesID)
	if !ok {
		return nil, engine.Species{}, fmt.Errorf("pet %s has unknown species %q", pet.ID, pet.SpeciesID)
	}
	return &pet, species, nil
}

func (s *PetService) ownedPet(tx *gorm.DB, learnerID, petID string) (*models.Pet, engine.Species, error) {
	var pet models.Pet
	err := tx.Where("id = ? AND learner_id = ?", petID, learnerID).First(&pet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, engine.Species{}, engine.NotFound("pet %s", petID)
	}
	if err != nil {
		return nil, engine.Species{}, err
	}
	species, ok := s.Catalog.SpeciesByID(pet.SpeciesID)
	if !ok {
		return nil, engine.Species{}, fmt.Errorf("pet %s has unknown species %q", pet.ID, pet.SpeciesID)
	}
	return &pet, species, nil
}

// grantExp adds exp to a pet and stores the derived level and stage.
func (s *PetService) grantExp(tx *gorm.DB, pet *models.Pet, species engine.Species, gain int) (engine.GrowthResult, error) {
	growth := engine.ApplyExp(petState(pet), species, gain)
	if growth.ExpGained == 0 {
		return growth, nil
	}
	pet.Exp = growth.Pet.Exp
	pet.Level = growth.Pet.Level
	pet.Stage = growth.Pet.Stage
	if err := tx.Model(pet).Updates(map[string]interface{}{
		"exp":   pet.Exp,
		"level": pet.Level,
		"stage": pet.Stage,
	}).Error; err != nil {
		return growth, fmt.Errorf("grant exp to pet %s: %w", pet.ID, err)
	}
	if growth.LevelUp {
		log.Printf("🆙 [PET] %s reached level %d", pet.Nickname, pet.Level)
	}
	return growth, nil
}

// settleVitals applies the hunger and happiness decay elapsed since the last settlement.
func (s *PetService) settleVitals(tx *gorm.DB, pet *models.Pet) error {
	v := engine.DecayVitals(engine.Vitals{
		Hunger:    pet.Hunger,
		Happiness: pet.Happiness,
		At:        pet.VitalsAt,
	}, s.now(), passiveEffect(pet))
	if v.At.Equal(pet.VitalsAt) {
		return nil
	}
	return s.saveVitals(tx, pet, v)
}

// care settles a pet's vitals and then restores them by an item's amounts.
func (s *PetService) care(tx *gorm.DB, pet *models.Pet, hunger, happiness int) error {
	if err := s.settleVitals(tx, pet); err != nil {
		return err
	}
	v := engine.Care(engine.Vitals{Hunger: pet.Hunger, Happiness: pet.Happiness, At: pet.VitalsAt}, hunger, happiness)
	return s.saveVitals(tx, pet, v)
}

func (s *PetService) saveVitals(tx *gorm.DB, pet *models.Pet, v engine.Vitals) error {
	pet.Hunger = v.Hunger
	pet.Happiness = v.Happiness
	pet.VitalsAt = v.At.UTC()
	return tx.Model(pet).Updates(map[string]interface{}{
		"hunger":    pet.Hunger,
		"happiness": pet.Happiness,
		"vitals_at": pet.VitalsAt,
	}).Error
}
