package imageprocessing

import (
	"context"
	"time"

	"lexio/config"
	"lexio/internal/core/extraction"
	"lexio/internal/core/vocsearch"
	"lexio/internal/database/model"
	contentsvc "lexio/internal/services/content"
	"lexio/pkg/contentapi"
	"lexio/pkg/logger"
)

// ProcessUpload stores the image under a fresh handle and runs the first
// extraction pass. The handle stays valid until cleaned up, so the same
// image can be reprocessed without re-uploading.
func ProcessUpload(ctx context.Context, filename, mimeType string, data []byte) (*contentapi.UploadResult, error) {
	fileID, err := saveTemp(data, mimeType)
	if err != nil {
		return nil, err
	}

	result, err := extraction.ProcessImage(ctx, data, mimeType)
	if err != nil {
		// The extraction failed outright; drop the handle so nothing leaks.
		_ = deleteTemp(fileID)
		return nil, err
	}

	scheduleCleanup(fileID)
	return &contentapi.UploadResult{
		FileID:           fileID,
		Filename:         filename,
		ProcessingResult: result,
	}, nil
}

// Reprocess reruns extraction over an already-uploaded image.
func Reprocess(ctx context.Context, fileID string) (*contentapi.ImageProcessingResult, error) {
	data, mimeType, err := loadTemp(fileID)
	if err != nil {
		return nil, err
	}
	result, err := extraction.ProcessImage(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	scheduleCleanup(fileID)
	return &result, nil
}

// SaveExtracted persists reviewed vocabulary and grammar into the learning
// set and reports how many of each were written. The source image is
// archived and indexed best-effort; failures there never fail the save.
func SaveExtracted(ctx context.Context, userID, learningSetID, fileID string, vocab []contentapi.ExtractedVocabularyItem, grammar []contentapi.ExtractedGrammarTopic) (*contentapi.SaveResult, error) {
	vocabParams := make([]contentsvc.VocabularyParams, 0, len(vocab))
	for _, v := range vocab {
		vocabParams = append(vocabParams, contentsvc.VocabularyParams{
			Word:            v.Word,
			Definition:      v.Definition,
			ExampleSentence: v.ExampleSentence,
			PartOfSpeech:    v.PartOfSpeech,
		})
	}
	grammarParams := make([]contentsvc.GrammarParams, 0, len(grammar))
	for _, g := range grammar {
		grammarParams = append(grammarParams, contentsvc.GrammarParams{
			Name:            g.Name,
			Description:     g.Description,
			RuleExplanation: g.RuleExplanation,
			Examples:        g.Examples,
			Difficulty:      g.Difficulty,
		})
	}

	savedVocab, err := contentsvc.AddVocabulary(ctx, userID, learningSetID, vocabParams)
	if err != nil {
		return nil, err
	}
	savedGrammar, err := contentsvc.AddGrammar(ctx, userID, learningSetID, grammarParams)
	if err != nil {
		return nil, err
	}

	if fileID != "" {
		if err := archiveToS3(ctx, fileID); err != nil {
			logger.Warn("%v: archive failed for %s: %v", config.ModuleImage, fileID, err)
		}
	}
	if len(savedVocab) > 0 {
		go indexSaved(savedVocab)
	}

	return &contentapi.SaveResult{
		Message:         "Content saved to learning set",
		VocabularySaved: len(savedVocab),
		GrammarSaved:    len(savedGrammar),
		LearningSetID:   learningSetID,
	}, nil
}

// Cleanup releases a temp-file handle.
func Cleanup(fileID string) error {
	return deleteTemp(fileID)
}

// CleanupOld sweeps temp files older than maxAgeHours. Zero or negative
// falls back to the configured max age.
func CleanupOld(maxAgeHours int) (int, error) {
	if maxAgeHours <= 0 {
		maxAgeHours = config.Cfg.Image.SweepMaxAgeHours
	}
	if maxAgeHours <= 0 {
		maxAgeHours = 24
	}
	return sweepTemp(time.Duration(maxAgeHours) * time.Hour)
}

// scheduleCleanup drops the handle after the retain window. Handles already
// released by an explicit cleanup are a no-op.
func scheduleCleanup(fileID string) {
	mins := config.Cfg.Image.RetainMinutes
	if mins <= 0 {
		return
	}
	time.AfterFunc(time.Duration(mins)*time.Minute, func() {
		if err := deleteTemp(fileID); err != nil {
			logger.Warn("%v: delayed cleanup failed for %s: %v", config.ModuleImage, fileID, err)
		}
	})
}

func indexSaved(items []model.VocabularyItem) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := vocsearch.IndexVocabulary(ctx, items); err != nil {
		logger.Warn("%v: vocabulary indexing failed: %v", config.ModuleSearch, err)
	}
}
