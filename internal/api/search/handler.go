package search

import (
	"strconv"

	"lexio/config"
	"lexio/internal/core/vocsearch"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/contentapi"

	"github.com/gofiber/fiber/v3"
)

type searchResponse struct {
	Hits []contentapi.VocabularyHit `json:"hits"`
}

// HandleSearch runs a semantic vocabulary search, optionally scoped to one
// learning set.
func HandleSearch(c fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperror.BadRequest(config.ModuleSearch, c, status.SearchMissingQuery, "q is required")
	}
	topK, _ := strconv.Atoi(c.Query("top_k"))

	hits, err := vocsearch.Search(c.Context(), query, c.Query("learning_set_id"), topK)
	if err != nil {
		return apperror.InternalError(config.ModuleSearch, c, status.SearchInternal, err)
	}

	out := searchResponse{Hits: make([]contentapi.VocabularyHit, 0, len(hits))}
	for _, h := range hits {
		out.Hits = append(out.Hits, contentapi.VocabularyHit{
			VocabularyID:  h.VocabularyID,
			LearningSetID: h.LearningSetID,
			Word:          h.Word,
			Definition:    h.Definition,
			Score:         h.Score,
		})
	}
	return c.JSON(out)
}
