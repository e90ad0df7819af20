package content

import (
	"lexio/internal/middleware"

	"github.com/gofiber/fiber/v3"
)

func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/content", middleware.RequireAuth())

	grp.Get("/collections", HandleListCollections)
	grp.Post("/collections", HandleCreateCollection)
	grp.Get("/collections/:id", HandleGetCollection)
	grp.Put("/collections/:id", HandleUpdateCollection)
	grp.Delete("/collections/:id", HandleDeleteCollection)

	grp.Get("/learning-sets", HandleListLearningSets)
	grp.Post("/learning-sets", HandleCreateLearningSet)
	grp.Get("/learning-sets/:id", HandleGetLearningSet)
	grp.Put("/learning-sets/:id", HandleUpdateLearningSet)
	grp.Delete("/learning-sets/:id", HandleDeleteLearningSet)

	grp.Post("/learning-sets/:id/vocabulary", HandleAddVocabulary)
	grp.Post("/learning-sets/:id/grammar", HandleAddGrammar)
	grp.Delete("/vocabulary/:id", HandleDeleteVocabulary)
	grp.Delete("/grammar/:id", HandleDeleteGrammar)
}
