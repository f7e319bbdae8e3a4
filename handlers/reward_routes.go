package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/middleware"
	"vocab-pet-engine/services"
)

func SetupRewardRoutes(router fiber.Router, svc *services.Services) {
	// 🎁 Loot
	router.Post("/chests/:type/open", func(c *fiber.Ctx) error {
		res, err := svc.Loot.OpenChest(middleware.LearnerID(c), c.Params("type"))
		if err != nil {
			return fail(c, err, "failed to open chest")
		}
		return c.JSON(res)
	})

	router.Post("/wheel/spin", func(c *fiber.Ctx) error {
		res, err := svc.Loot.SpinWheel(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to spin wheel")
		}
		return c.JSON(res)
	})

	// 🛒 Shop
	router.Post("/shop/:item_id/buy", func(c *fiber.Ctx) error {
		purchase, err := svc.Shop.Buy(middleware.LearnerID(c), c.Params("item_id"))
		if err != nil {
			return fail(c, err, "purchase failed")
		}
		return c.JSON(purchase)
	})

	router.Post("/equipment/:item_id/equip", func(c *fiber.Ctx) error {
		piece, err := svc.Shop.Equip(middleware.LearnerID(c), c.Params("item_id"))
		if err != nil {
			return fail(c, err, "failed to equip item")
		}
		return c.JSON(piece)
	})

	// 🗓️ Objectives
	router.Get("/quests/daily", func(c *fiber.Ctx) error {
		state, err := svc.Quests.Daily(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to load daily quests")
		}
		return c.JSON(state)
	})

	router.Get("/challenges/weekly", func(c *fiber.Ctx) error {
		view, err := svc.Quests.Weekly(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to load weekly challenge")
		}
		return c.JSON(view)
	})

	router.Post("/challenges/weekly/claim", func(c *fiber.Ctx) error {
		claim, err := svc.Quests.ClaimWeekly(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to claim weekly reward")
		}
		return c.JSON(claim)
	})
}
