package main

import (
	"fmt"

	"lexio/config"
	"lexio/internal/api/auth"
	"lexio/internal/api/content"
	"lexio/internal/api/dashboard"
	"lexio/internal/api/healthcheck"
	"lexio/internal/api/imageprocessing"
	"lexio/internal/api/search"
	"lexio/internal/database"
	"lexio/internal/database/model"
	"lexio/internal/middleware"
	"lexio/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:   config.Cfg.Server.AppName,
		BodyLimit: config.Cfg.Server.BodyLimit,
	})

	app.Use(middleware.PanicRecovery())
	app.Use(middleware.ConnectionLimit(middleware.NewConnectionLimiter(config.Cfg.Server.Concurrency)))

	db, err := database.GetDB()
	if err != nil {
		logger.Error(err, "database unavailable at startup")
	} else if err := database.Migrate(db,
		&model.User{},
		&model.Collection{},
		&model.LearningSet{},
		&model.VocabularyItem{},
		&model.GrammarTopic{},
	); err != nil {
		logger.Error(err, "auto-migration failed")
	}

	// routes
	healthcheck.RegisterRoutes(app)
	auth.RegisterRoutes(app)
	content.RegisterRoutes(app)
	search.RegisterRoutes(app)
	imageprocessing.RegisterRoutes(app)
	dashboard.RegisterRoutes(app)

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
