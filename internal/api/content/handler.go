package content

import (
	"errors"

	"lexio/config"
	"lexio/internal/database/model"
	"lexio/internal/middleware"
	contentsvc "lexio/internal/services/content"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/contentapi"

	"github.com/gofiber/fiber/v3"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toCollection(c *model.Collection) contentapi.Collection {
	return contentapi.Collection{
		ID:          c.ID,
		Name:        c.Name,
		Description: deref(c.Description),
		GradeLevel:  deref(c.GradeLevel),
		Subject:     deref(c.Subject),
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toLearningSet(s *model.LearningSet) contentapi.LearningSet {
	out := contentapi.LearningSet{
		ID:            s.ID,
		Name:          s.Name,
		Description:   deref(s.Description),
		GradeLevel:    deref(s.GradeLevel),
		Subject:       deref(s.Subject),
		CollectionIDs: make([]string, 0, len(s.Collections)),
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, col := range s.Collections {
		out.CollectionIDs = append(out.CollectionIDs, col.ID)
	}
	for i := range s.VocabularyItems {
		out.Vocabulary = append(out.Vocabulary, toVocabularyItem(&s.VocabularyItems[i]))
	}
	for i := range s.GrammarTopics {
		out.GrammarTopics = append(out.GrammarTopics, toGrammarTopic(&s.GrammarTopics[i]))
	}
	return out
}

func toVocabularyItem(v *model.VocabularyItem) contentapi.VocabularyItem {
	return contentapi.VocabularyItem{
		ID:              v.ID,
		Word:            v.Word,
		Definition:      v.Definition,
		ExampleSentence: deref(v.ExampleSentence),
		PartOfSpeech:    deref(v.PartOfSpeech),
		DifficultyLevel: deref(v.DifficultyLevel),
		LearningSetID:   v.LearningSetID,
		CreatedAt:       v.CreatedAt,
	}
}

func toGrammarTopic(g *model.GrammarTopic) contentapi.GrammarTopic {
	return contentapi.GrammarTopic{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		RuleExplanation: deref(g.RuleExplanation),
		Examples:        contentsvc.DecodeExamples(g.Examples),
		Difficulty:      g.Difficulty,
		LearningSetID:   g.LearningSetID,
		CreatedAt:       g.CreatedAt,
	}
}

// writeContentError maps service errors onto the standard payload.
func writeContentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, contentsvc.ErrNameRequired):
		return apperror.BadRequest(config.ModuleContent, c, status.ContentNameRequired, "name is required")
	case errors.Is(err, contentsvc.ErrNotFound):
		return apperror.NotFound(config.ModuleContent, c, status.ContentNotFound, "Resource not found")
	case errors.Is(err, contentsvc.ErrAccessDenied):
		return apperror.Forbidden(config.ModuleContent, c, status.ContentAccessDenied, "Not enough permissions")
	}
	return apperror.InternalError(config.ModuleContent, c, status.ContentInternal, err)
}

func listFilter(c fiber.Ctx) contentsvc.ListFilter {
	return contentsvc.ListFilter{
		Search:       c.Query("search"),
		GradeLevel:   c.Query("grade_level"),
		Subject:      c.Query("subject"),
		CollectionID: c.Query("collection_id"),
	}
}

// --- collections ---

func HandleListCollections(c fiber.Ctx) error {
	cols, err := contentsvc.ListCollections(c.Context(), middleware.UserID(c), listFilter(c))
	if err != nil {
		return writeContentError(c, err)
	}
	out := make([]contentapi.Collection, 0, len(cols))
	for i := range cols {
		out = append(out, toCollection(&cols[i]))
	}
	return c.JSON(out)
}

func HandleGetCollection(c fiber.Ctx) error {
	col, err := contentsvc.GetCollection(c.Context(), c.Params("id"))
	if err != nil {
		return writeContentError(c, err)
	}
	return c.JSON(toCollection(col))
}

func HandleCreateCollection(c fiber.Ctx) error {
	var req contentapi.CollectionParams
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	col, err := contentsvc.CreateCollection(c.Context(), middleware.UserID(c), contentsvc.CollectionParams{
		Name:        req.Name,
		Description: req.Description,
		GradeLevel:  req.GradeLevel,
		Subject:     req.Subject,
	})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCollection(col))
}

func HandleUpdateCollection(c fiber.Ctx) error {
	var req contentapi.CollectionParams
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	col, err := contentsvc.UpdateCollection(c.Context(), middleware.UserID(c), c.Params("id"), contentsvc.CollectionParams{
		Name:        req.Name,
		Description: req.Description,
		GradeLevel:  req.GradeLevel,
		Subject:     req.Subject,
	})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.JSON(toCollection(col))
}

func HandleDeleteCollection(c fiber.Ctx) error {
	if err := contentsvc.DeleteCollection(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return writeContentError(c, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Collection deleted",
	})
}

// --- learning sets ---

func HandleListLearningSets(c fiber.Ctx) error {
	sets, err := contentsvc.ListLearningSets(c.Context(), middleware.UserID(c), listFilter(c))
	if err != nil {
		return writeContentError(c, err)
	}
	out := make([]contentapi.LearningSet, 0, len(sets))
	for i := range sets {
		out = append(out, toLearningSet(&sets[i]))
	}
	return c.JSON(out)
}

func HandleGetLearningSet(c fiber.Ctx) error {
	set, err := contentsvc.GetLearningSet(c.Context(), c.Params("id"))
	if err != nil {
		return writeContentError(c, err)
	}
	return c.JSON(toLearningSet(set))
}

func HandleCreateLearningSet(c fiber.Ctx) error {
	var req contentapi.LearningSetParams
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	set, err := contentsvc.CreateLearningSet(c.Context(), middleware.UserID(c), contentsvc.LearningSetParams{
		Name:          req.Name,
		Description:   req.Description,
		GradeLevel:    req.GradeLevel,
		Subject:       req.Subject,
		CollectionIDs: req.CollectionIDs,
	})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLearningSet(set))
}

func HandleUpdateLearningSet(c fiber.Ctx) error {
	var req contentapi.LearningSetParams
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	set, err := contentsvc.UpdateLearningSet(c.Context(), middleware.UserID(c), c.Params("id"), contentsvc.LearningSetParams{
		Name:          req.Name,
		Description:   req.Description,
		GradeLevel:    req.GradeLevel,
		Subject:       req.Subject,
		CollectionIDs: req.CollectionIDs,
	})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.JSON(toLearningSet(set))
}

func HandleDeleteLearningSet(c fiber.Ctx) error {
	if err := contentsvc.DeleteLearningSet(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return writeContentError(c, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Learning set deleted",
	})
}

// --- vocabulary and grammar items ---

type vocabularyRequest struct {
	Word            string `json:"word"`
	Definition      string `json:"definition"`
	ExampleSentence string `json:"example_sentence"`
	PartOfSpeech    string `json:"part_of_speech"`
	DifficultyLevel string `json:"difficulty_level"`
}

type grammarRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	RuleExplanation string   `json:"rule_explanation"`
	Examples        []string `json:"examples"`
	Difficulty      string   `json:"difficulty"`
}

func HandleAddVocabulary(c fiber.Ctx) error {
	var req vocabularyRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	if req.Word == "" || req.Definition == "" {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentMissingParams, "word and definition are required")
	}
	items, err := contentsvc.AddVocabulary(c.Context(), middleware.UserID(c), c.Params("id"), []contentsvc.VocabularyParams{{
		Word:            req.Word,
		Definition:      req.Definition,
		ExampleSentence: req.ExampleSentence,
		PartOfSpeech:    req.PartOfSpeech,
		DifficultyLevel: req.DifficultyLevel,
	}})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toVocabularyItem(&items[0]))
}

func HandleAddGrammar(c fiber.Ctx) error {
	var req grammarRequest
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentInvalidRequestBody, "invalid request body")
	}
	if req.Name == "" || req.Description == "" {
		return apperror.BadRequest(config.ModuleContent, c, status.ContentMissingParams, "name and description are required")
	}
	topics, err := contentsvc.AddGrammar(c.Context(), middleware.UserID(c), c.Params("id"), []contentsvc.GrammarParams{{
		Name:            req.Name,
		Description:     req.Description,
		RuleExplanation: req.RuleExplanation,
		Examples:        req.Examples,
		Difficulty:      req.Difficulty,
	}})
	if err != nil {
		return writeContentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toGrammarTopic(&topics[0]))
}

func HandleDeleteVocabulary(c fiber.Ctx) error {
	if err := contentsvc.DeleteVocabulary(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return writeContentError(c, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Vocabulary item deleted",
	})
}

func HandleDeleteGrammar(c fiber.Ctx) error {
	if err := contentsvc.DeleteGrammar(c.Context(), middleware.UserID(c), c.Params("id")); err != nil {
		return writeContentError(c, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Grammar topic deleted",
	})
}
