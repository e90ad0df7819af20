package imageprocessing

import (
	"lexio/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/image-processing", middleware.RequireAuth())

	grp.Post("/upload", HandleUpload)
	grp.Post("/reprocess/:file_id", HandleReprocess)
	grp.Post("/save-to-learning-set", HandleSaveToLearningSet)
	grp.Delete("/cleanup/:file_id", HandleCleanup)
	grp.Post("/cleanup-old", HandleCleanupOld)
}
