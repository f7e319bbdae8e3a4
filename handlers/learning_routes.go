package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/middleware"
	"vocab-pet-engine/services"
)

type reviewRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

func SetupLearningRoutes(router fiber.Router, svc *services.Services, v *requestValidator) {
	router.Post("/words/:word_id/master", func(c *fiber.Ctx) error {
		word, err := svc.Reviews.MarkMastered(middleware.LearnerID(c), c.Params("word_id"))
		if err != nil {
			return fail(c, err, "failed to master word")
		}
		return c.Status(fiber.StatusCreated).JSON(word)
	})

	router.Post("/words/:word_id/review", func(c *fiber.Ctx) error {
		var req reviewRequest
		if body := v.bind(c, &req); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}
		word, err := svc.Reviews.Review(c.UserContext(), middleware.LearnerID(c), c.Params("word_id"), *req.Correct)
		if err != nil {
			return fail(c, err, "failed to review word")
		}
		return c.JSON(word)
	})

	router.Delete("/words/:word_id", func(c *fiber.Ctx) error {
		if err := svc.Reviews.ResetWord(middleware.LearnerID(c), c.Params("word_id")); err != nil {
			return fail(c, err, "failed to reset word")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	router.Get("/words/due", func(c *fiber.Ctx) error {
		words, err := svc.Reviews.DueWords(middleware.LearnerID(c), c.QueryInt("limit", 50))
		if err != nil {
			return fail(c, err, "failed to list due words")
		}
		return c.JSON(fiber.Map{"words": words, "count": len(words)})
	})

	// 📝 Quiz submission drives stars, pet exp, quests and badges in one go
	router.Post("/quiz/submit", func(c *fiber.Ctx) error {
		var sub services.QuizSubmission
		if body := v.bind(c, &sub); body != nil {
			return c.Status(fiber.StatusBadRequest).JSON(body)
		}
		res, err := svc.Quiz.Submit(c.UserContext(), middleware.LearnerID(c), sub)
		if err != nil {
			return fail(c, err, "failed to submit quiz")
		}
		return c.JSON(res)
	})
}
