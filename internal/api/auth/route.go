package auth

import (
	"lexio/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/auth")

	grp.Post("/register", HandleRegister)
	grp.Post("/login", HandleLogin)
	grp.Post("/logout", HandleLogout)

	grp.Get("/me", HandleMe, middleware.RequireAuth())
	grp.Put("/me", HandleUpdateProfile, middleware.RequireAuth())
	grp.Delete("/me", HandleDeactivate, middleware.RequireAuth())
}
