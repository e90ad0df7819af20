package extraction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"lexio/config"
	"lexio/pkg/contentapi"
	"lexio/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type visionContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionRequest struct {
	Model       string          `json:"model"`
	Messages    []visionMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

type visionChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type visionResponse struct {
	Choices []visionChoice `json:"choices"`
}

const extractionPrompt = `You are an assistant for language teachers. The image shows educational material (textbook page, worksheet, or handwritten notes).

Extract every vocabulary item, grammar topic and exercise you can find and answer with a single JSON object, no surrounding prose:

{
  "vocabulary": [{"word": "", "definition": "", "example_sentence": "", "part_of_speech": "", "confidence": 0.0}],
  "grammar_topics": [{"name": "", "description": "", "rule_explanation": "", "examples": [""], "difficulty": "BEGINNER|INTERMEDIATE|ADVANCED", "confidence": 0.0}],
  "exercises": [{"question": "", "answer": "", "exercise_type": "", "difficulty": "", "confidence": 0.0}],
  "source_type": "printed|handwritten|mixed",
  "suggested_grade_level": "",
  "processing_notes": ""
}

Confidence is 0.0-1.0 per item. Leave arrays empty when nothing of that kind appears.`

// ProcessImage runs the vision model over one image and parses the reply.
// A model failure is an error; an unparseable reply is not, it degrades to
// an empty result flagged for review.
func ProcessImage(ctx context.Context, imageData []byte, mimeType string) (contentapi.ImageProcessingResult, error) {
	reply, err := callVision(ctx, imageData, mimeType)
	if err != nil {
		return contentapi.ImageProcessingResult{}, err
	}
	result := ParseResult(reply)
	logger.WithFields(map[string]interface{}{
		"vocabulary":   len(result.ExtractedContent.Vocabulary),
		"grammar":      len(result.ExtractedContent.GrammarTopics),
		"exercises":    len(result.ExtractedContent.Exercises),
		"confidence":   result.Confidence,
		"needs_review": result.NeedsReview,
	}).Info("extraction: image processed")
	return result, nil
}

func callVision(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	key := config.Cfg.OpenAI.Key
	if key == "" {
		return "", errors.New("missing openai key")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	imagePart := visionContentPart{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: dataURL}

	req := visionRequest{
		Model:       config.Cfg.OpenAI.VisionModel,
		Temperature: 0.1,
		MaxTokens:   2048,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContentPart{
					{Type: "text", Text: extractionPrompt},
					imagePart,
				},
			},
		},
	}

	client := openai.NewClient(option.WithAPIKey(key))
	var out visionResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		logger.Error(err, "%v: vision call failed", config.ModuleOpenAI)
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
