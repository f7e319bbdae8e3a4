package handlers

import (
	"github.com/gofiber/fiber/v2"

	"vocab-pet-engine/middleware"
	"vocab-pet-engine/services"
)

// SetupRoutes registers every learner-facing route. The gateway forwards paths
// like /api/v1/vocab/s/user/progress -> /user/progress with X-User-ID set.
func SetupRoutes(app *fiber.App, svc *services.Services) error {
	v, err := newRequestValidator()
	if err != nil {
		return err
	}

	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	SetupProgressionRoutes(securedGroup, svc)
	SetupLearningRoutes(securedGroup, svc, v)
	SetupPetRoutes(securedGroup, svc, v)
	SetupRewardRoutes(securedGroup, svc)
	return nil
}
