package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/engine"
)

// statusFor maps an engine error kind to its HTTP status.
func statusFor(err error) int {
	switch engine.KindOf(err) {
	case engine.KindValidation:
		return fiber.StatusBadRequest
	case engine.KindNotFound:
		return fiber.StatusNotFound
	case engine.KindConflict, engine.KindConcurrency:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// fail writes the standard {"error", "cause"} body for err.
func fail(c *fiber.Ctx, err error, message string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("❌ [API] %s %s: %v", c.Method(), c.Path(), err)
	}
	body := fiber.Map{
		"error": message,
		"cause": err.Error(),
	}
	var e *engine.Error
	if errors.As(err, &e) {
		body["kind"] = e.Kind
		if e.Field != "" {
			body["field"] = e.Field
		}
	}
	return c.Status(status).JSON(body)
}
