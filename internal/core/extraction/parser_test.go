package extraction

import (
	"testing"

	"lexio/pkg/contentapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultFullDocument(t *testing.T) {
	reply := `{
		"vocabulary": [
			{"word": "apple", "definition": "a fruit", "part_of_speech": "noun", "confidence": 0.95},
			{"word": "run", "definition": "to move fast", "confidence": 0.85}
		],
		"grammar_topics": [
			{"name": "past simple", "description": "regular verbs", "examples": ["I walked"], "difficulty": "BEGINNER", "confidence": 0.9}
		],
		"exercises": [
			{"question": "Fill in: I ___ to school", "answer": "walked", "exercise_type": "cloze", "confidence": 0.8}
		],
		"source_type": "printed",
		"suggested_grade_level": "3"
	}`

	res := ParseResult(reply)

	require.Len(t, res.ExtractedContent.Vocabulary, 2)
	require.Len(t, res.ExtractedContent.GrammarTopics, 1)
	require.Len(t, res.ExtractedContent.Exercises, 1)
	assert.Equal(t, contentapi.SourcePrinted, res.SourceType)
	assert.Equal(t, "3", res.SuggestedGradeLevel)
	assert.InDelta(t, (0.95+0.85+0.9+0.8)/4, res.Confidence, 1e-9)
	assert.False(t, res.NeedsReview, "overall confidence above threshold")
}

func TestParseResultStripsCodeFences(t *testing.T) {
	reply := "```json\n{\"vocabulary\": [{\"word\": \"cat\", \"confidence\": 0.9}], \"source_type\": \"handwritten\"}\n```"

	res := ParseResult(reply)

	require.Len(t, res.ExtractedContent.Vocabulary, 1)
	assert.Equal(t, "cat", res.ExtractedContent.Vocabulary[0].Word)
	assert.Equal(t, contentapi.SourceHandwritten, res.SourceType)
}

func TestParseResultMissingConfidenceDefaults(t *testing.T) {
	reply := `{"vocabulary": [{"word": "dog", "definition": "an animal"}]}`

	res := ParseResult(reply)

	require.Len(t, res.ExtractedContent.Vocabulary, 1)
	assert.Equal(t, defaultConfidence, res.ExtractedContent.Vocabulary[0].Confidence)
	assert.Equal(t, defaultConfidence, res.Confidence)
	assert.True(t, res.NeedsReview)
}

func TestParseResultExplicitZeroConfidenceKept(t *testing.T) {
	reply := `{"vocabulary": [{"word": "maybe", "confidence": 0.0}]}`

	res := ParseResult(reply)

	require.Len(t, res.ExtractedContent.Vocabulary, 1)
	assert.Zero(t, res.ExtractedContent.Vocabulary[0].Confidence, "an explicit 0 is not the same as absent")
}

func TestParseResultInvalidJSONDegrades(t *testing.T) {
	res := ParseResult("I could not read the image, sorry!")

	assert.True(t, res.ExtractedContent.Empty())
	assert.True(t, res.NeedsReview)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.ProcessingNotes)
}

func TestParseResultSkipsBlankEntries(t *testing.T) {
	reply := `{
		"vocabulary": [{"word": "  ", "definition": "noise"}, {"word": "real", "confidence": 0.9}],
		"grammar_topics": [{"name": ""}]
	}`

	res := ParseResult(reply)

	require.Len(t, res.ExtractedContent.Vocabulary, 1)
	assert.Equal(t, "real", res.ExtractedContent.Vocabulary[0].Word)
	assert.Empty(t, res.ExtractedContent.GrammarTopics)
}

func TestParseResultUnknownSourceTypeFallsBack(t *testing.T) {
	res := ParseResult(`{"vocabulary": [{"word": "x", "confidence": 0.9}], "source_type": "scanned"}`)
	assert.Equal(t, contentapi.SourcePrinted, res.SourceType)
}

func TestParseResultEmptyContentFlagsReview(t *testing.T) {
	res := ParseResult(`{"vocabulary": [], "grammar_topics": [], "exercises": []}`)
	assert.True(t, res.NeedsReview, "nothing extracted always needs a human look")
}
