package dashboard

import (
	"lexio/config"
	"lexio/internal/middleware"
	contentsvc "lexio/internal/services/content"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/contentapi"

	"github.com/gofiber/fiber/v3"
)

// HandleSummary returns the caller's content totals.
func HandleSummary(c fiber.Ctx) error {
	collections, sets, vocab, grammar, err := contentsvc.DashboardCounts(c.Context(), middleware.UserID(c))
	if err != nil {
		return apperror.InternalError(config.ModuleDashboard, c, status.ContentInternal, err)
	}
	return c.JSON(contentapi.DashboardSummary{
		Collections:     collections,
		LearningSets:    sets,
		VocabularyItems: vocab,
		GrammarTopics:   grammar,
	})
}
