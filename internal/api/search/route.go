package search

import (
	"lexio/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	r.Get("/content/search", HandleSearch, middleware.RequireAuth())
}
