package imageprocessing

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"lexio/config"
	"lexio/internal/middleware"
	contentsvc "lexio/internal/services/content"
	imagesvc "lexio/internal/services/imageprocessing"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/contentapi"

	"github.com/gofiber/fiber/v3"
)

// maxImageBytes is the upload size ceiling (10 MiB).
const maxImageBytes = 10 << 20

// HandleUpload accepts one image, stores it under a temp handle and returns
// the first extraction pass.
func HandleUpload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageMissingFile, "file is required")
	}
	if fh.Size == 0 {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageMissingFile, "empty file")
	}
	if fh.Size > maxImageBytes {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageTooLarge, "File too large. Maximum size is 10MB")
	}
	mimeType := fh.Header.Get("Content-Type")
	if !imagesvc.AllowedType(mimeType) {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageUnsupportedType, "File must be an image (JPEG, PNG, GIF, BMP, TIFF, or WebP)")
	}

	file, err := fh.Open()
	if err != nil {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageMissingFile, "cannot open file")
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	if len(data) > maxImageBytes {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageTooLarge, "File too large. Maximum size is 10MB")
	}

	result, err := imagesvc.ProcessUpload(c.Context(), fh.Filename, mimeType, data)
	if err != nil {
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	return c.JSON(result)
}

// HandleReprocess reruns extraction over an uploaded image.
func HandleReprocess(c fiber.Ctx) error {
	result, err := imagesvc.Reprocess(c.Context(), c.Params("file_id"))
	if err != nil {
		if errors.Is(err, imagesvc.ErrTempNotFound) {
			return apperror.NotFound(config.ModuleImage, c, status.ImageFileNotFound, "File not found or expired")
		}
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	return c.JSON(result)
}

// HandleSaveToLearningSet persists reviewed content into a learning set.
// Vocabulary and grammar arrive as JSON-encoded form fields.
func HandleSaveToLearningSet(c fiber.Ctx) error {
	learningSetID := c.FormValue("learning_set_id")
	if learningSetID == "" {
		return apperror.BadRequest(config.ModuleImage, c, status.ImageInvalidPayload, "learning_set_id is required")
	}

	var vocab []contentapi.ExtractedVocabularyItem
	if raw := c.FormValue("vocabulary_items"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vocab); err != nil {
			return apperror.BadRequest(config.ModuleImage, c, status.ImageInvalidPayload, "vocabulary_items is not valid JSON")
		}
	}
	var grammar []contentapi.ExtractedGrammarTopic
	if raw := c.FormValue("grammar_topics"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &grammar); err != nil {
			return apperror.BadRequest(config.ModuleImage, c, status.ImageInvalidPayload, "grammar_topics is not valid JSON")
		}
	}

	result, err := imagesvc.SaveExtracted(c.Context(), middleware.UserID(c), learningSetID, c.FormValue("file_id"), vocab, grammar)
	if err != nil {
		switch {
		case errors.Is(err, contentsvc.ErrNotFound):
			return apperror.NotFound(config.ModuleImage, c, status.ImageInvalidPayload, "Learning set not found")
		case errors.Is(err, contentsvc.ErrAccessDenied):
			return apperror.Forbidden(config.ModuleImage, c, status.ImageInvalidPayload, "Not enough permissions")
		}
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleCleanup releases one temp-file handle.
func HandleCleanup(c fiber.Ctx) error {
	if err := imagesvc.Cleanup(c.Params("file_id")); err != nil {
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:       status.OK,
		Message:    "File cleaned up",
		TrackingID: c.Get("X-Request-ID"),
	})
}

// HandleCleanupOld sweeps temp files past the retention window. Teachers
// only; max_age_hours overrides the configured window.
func HandleCleanupOld(c fiber.Ctx) error {
	if middleware.Role(c) != "teacher" {
		return apperror.Forbidden(config.ModuleImage, c, status.ImageInvalidPayload, "Not enough permissions")
	}
	maxAgeHours, _ := strconv.Atoi(c.Query("max_age_hours"))
	removed, err := imagesvc.CleanupOld(maxAgeHours)
	if err != nil {
		return apperror.InternalError(config.ModuleImage, c, status.ImageInternal, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:       status.OK,
		Message:    "Old files cleaned up",
		TrackingID: c.Get("X-Request-ID"),
		Data:       fiber.Map{"removed": removed},
	})
}
