package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/engine"
	"vocab-pet-engine/middleware"
	"vocab-pet-engine/services"
)

type adoptRequest struct {
	SpeciesID string `json:"species_id" validate:"required"`
	Nickname  string `json:"nickname" validate:"max=40"`
}

type evolveRequest struct {
	Path string `json:"path" validate:"required,oneof=A B"`
}

func SetupPetRoutes(router fiber.Router, svc *services.Services, v *requestValidator) {
	router.Post("/pets", func(c *fiber.Ctx) error {
		var req adoptRequest
		if body := v.bind(c, &req); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}
		pet, err := svc.Pets.Adopt(middleware.LearnerID(c), req.SpeciesID, req.Nickname)
		if err != nil {
			return fail(c, err, "failed to adopt pet")
		}
		return c.Status(fiber.StatusCreated).JSON(pet)
	})

	router.Get("/pets/active", func(c *fiber.Ctx) error {
		pet, err := svc.Pets.Active(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to load active pet")
		}
		return c.JSON(pet)
	})

	router.Post("/pets/:id/activate", func(c *fiber.Ctx) error {
		pet, err := svc.Pets.Activate(middleware.LearnerID(c), c.Params("id"))
		if err != nil {
			return fail(c, err, "failed to activate pet")
		}
		return c.JSON(pet)
	})

	router.Post("/pets/:id/evolve", func(c *fiber.Ctx) error {
		var req evolveRequest
		if body := v.bind(c, &req); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}
		pet, err := svc.Pets.Evolve(middleware.LearnerID(c), c.Params("id"), engine.EvolutionPath(req.Path))
		if err != nil {
			return fail(c, err, "failed to evolve pet")
		}
		return c.JSON(pet)
	})
}
