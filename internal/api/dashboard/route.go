package dashboard

import (
	"lexio/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	r.Get("/dashboard", HandleSummary, middleware.RequireAuth())
}
