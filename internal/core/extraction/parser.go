package extraction

import (
	"encoding/json"
	"strings"

	"lexio/pkg/contentapi"
)

// reviewThreshold is the overall confidence below which a human pass is
// requested.
const reviewThreshold = 0.8

// defaultConfidence is assigned to items the model returned without a score.
const defaultConfidence = 0.5

// rawExtraction mirrors the JSON document the vision model is instructed to
// produce. Confidence fields are pointers so absent and zero are
// distinguishable.
type rawExtraction struct {
	Vocabulary []struct {
		Word            string   `json:"word"`
		Definition      string   `json:"definition"`
		ExampleSentence string   `json:"example_sentence"`
		PartOfSpeech    string   `json:"part_of_speech"`
		Confidence      *float64 `json:"confidence"`
	} `json:"vocabulary"`
	GrammarTopics []struct {
		Name            string   `json:"name"`
		Description     string   `json:"description"`
		RuleExplanation string   `json:"rule_explanation"`
		Examples        []string `json:"examples"`
		Difficulty      string   `json:"difficulty"`
		Confidence      *float64 `json:"confidence"`
	} `json:"grammar_topics"`
	Exercises []struct {
		Question     string   `json:"question"`
		Answer       string   `json:"answer"`
		ExerciseType string   `json:"exercise_type"`
		Difficulty   string   `json:"difficulty"`
		Confidence   *float64 `json:"confidence"`
	} `json:"exercises"`
	SourceType          string `json:"source_type"`
	SuggestedGradeLevel string `json:"suggested_grade_level"`
	ProcessingNotes     string `json:"processing_notes"`
}

// stripFences removes a markdown code fence wrapper if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func confidenceOr(c *float64, fallback float64) float64 {
	if c == nil {
		return fallback
	}
	return *c
}

// ParseResult turns the model's reply into a processing result. A reply that
// is not valid JSON yields an empty low-confidence result flagged for review
// rather than an error: the reviewer decides what to do with it.
func ParseResult(reply string) contentapi.ImageProcessingResult {
	var raw rawExtraction
	if err := json.Unmarshal([]byte(stripFences(reply)), &raw); err != nil {
		return contentapi.ImageProcessingResult{
			SourceType:      contentapi.SourcePrinted,
			NeedsReview:     true,
			ProcessingNotes: "model reply was not valid JSON",
		}
	}

	var content contentapi.ExtractedContent
	var sum float64
	var n int

	for _, v := range raw.Vocabulary {
		if strings.TrimSpace(v.Word) == "" {
			continue
		}
		conf := confidenceOr(v.Confidence, defaultConfidence)
		content.Vocabulary = append(content.Vocabulary, contentapi.ExtractedVocabularyItem{
			Word:            strings.TrimSpace(v.Word),
			Definition:      v.Definition,
			ExampleSentence: v.ExampleSentence,
			PartOfSpeech:    v.PartOfSpeech,
			Confidence:      conf,
		})
		sum += conf
		n++
	}
	for _, g := range raw.GrammarTopics {
		if strings.TrimSpace(g.Name) == "" {
			continue
		}
		conf := confidenceOr(g.Confidence, defaultConfidence)
		content.GrammarTopics = append(content.GrammarTopics, contentapi.ExtractedGrammarTopic{
			Name:            strings.TrimSpace(g.Name),
			Description:     g.Description,
			RuleExplanation: g.RuleExplanation,
			Examples:        g.Examples,
			Difficulty:      g.Difficulty,
			Confidence:      conf,
		})
		sum += conf
		n++
	}
	for _, e := range raw.Exercises {
		if strings.TrimSpace(e.Question) == "" {
			continue
		}
		conf := confidenceOr(e.Confidence, defaultConfidence)
		content.Exercises = append(content.Exercises, contentapi.ExtractedExercise{
			Question:     strings.TrimSpace(e.Question),
			Answer:       e.Answer,
			ExerciseType: e.ExerciseType,
			Difficulty:   e.Difficulty,
			Confidence:   conf,
		})
		sum += conf
		n++
	}

	overall := 0.0
	if n > 0 {
		overall = sum / float64(n)
	}

	sourceType := contentapi.SourceType(raw.SourceType)
	switch sourceType {
	case contentapi.SourcePrinted, contentapi.SourceHandwritten, contentapi.SourceMixed:
	default:
		sourceType = contentapi.SourcePrinted
	}

	return contentapi.ImageProcessingResult{
		ExtractedContent:    content,
		Confidence:          overall,
		SourceType:          sourceType,
		SuggestedGradeLevel: raw.SuggestedGradeLevel,
		NeedsReview:         overall < reviewThreshold || content.Empty(),
		ProcessingNotes:     raw.ProcessingNotes,
	}
}
