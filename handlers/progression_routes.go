package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/middleware"
	"vocab-pet-engine/services"
)

func SetupProgressionRoutes(router fiber.Router, svc *services.Services) {
	router.Get("/user/progress", func(c *fiber.Ctx) error {
		view, err := svc.Progress.GetProgress(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to load progress")
		}
		return c.JSON(view)
	})

	// ✅ Paginated reward ledger
	router.Get("/user/rewards", func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		size := c.QueryInt("size", 20)

		history, err := svc.Progress.RewardHistory(middleware.LearnerID(c), page, size)
		if err != nil {
			return fail(c, err, "failed to fetch reward history")
		}
		return c.JSON(history)
	})

	router.Get("/user/badges", func(c *fiber.Ctx) error {
		badges, err := svc.Badges.List(middleware.LearnerID(c))
		if err != nil {
			return fail(c, err, "failed to fetch badges")
		}
		return c.JSON(fiber.Map{"badges": badges})
	})

	router.Get("/leaderboard", func(c *fiber.Ctx) error {
		board, err := svc.Progress.Leaderboard(c.QueryInt("limit", 10))
		if err != nil {
			return fail(c, err, "failed to fetch leaderboard")
		}
		return c.JSON(fiber.Map{"leaderboard": board})
	})
}
