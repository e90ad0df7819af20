package workflow

import (
	"context"
	"testing"

	"lexio/pkg/contentapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewController(t *testing.T, content contentapi.ExtractedContent) (*Controller, *fakeAPI) {
	t.Helper()
	upload := appleUpload()
	upload.ProcessingResult.ExtractedContent = content
	api := &fakeAPI{uploadResult: upload}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))
	return ctrl, api
}

func TestUpdateVocabularyReplacesEntry(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{
		Vocabulary: []contentapi.ExtractedVocabularyItem{
			{Word: "aple", Definition: "a fruit", Confidence: 0.6},
		},
	})
	editor := NewReviewEditor(ctrl)

	require.NoError(t, editor.UpdateVocabulary(0, contentapi.ExtractedVocabularyItem{
		Word: "apple", Definition: "a fruit", Confidence: 0.6,
	}))

	assert.Equal(t, "apple", ctrl.Content().Vocabulary[0].Word)
}

func TestAddVocabularyStartsAtFullConfidence(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{})
	editor := NewReviewEditor(ctrl)

	require.NoError(t, editor.AddVocabulary())

	vocab := ctrl.Content().Vocabulary
	require.Len(t, vocab, 1)
	assert.Equal(t, 1.0, vocab[0].Confidence, "hand-entered items are not extractor guesses")
	assert.Empty(t, vocab[0].Word)
}

func TestRemoveVocabulary(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{
		Vocabulary: []contentapi.ExtractedVocabularyItem{
			{Word: "one"}, {Word: "two"}, {Word: "three"},
		},
	})
	editor := NewReviewEditor(ctrl)

	require.NoError(t, editor.RemoveVocabulary(1))

	vocab := ctrl.Content().Vocabulary
	require.Len(t, vocab, 2)
	assert.Equal(t, "one", vocab[0].Word)
	assert.Equal(t, "three", vocab[1].Word)
}

func TestEditorIndexOutOfRange(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{})
	editor := NewReviewEditor(ctrl)

	assert.ErrorIs(t, editor.UpdateVocabulary(0, contentapi.ExtractedVocabularyItem{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, editor.RemoveVocabulary(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, editor.UpdateGrammar(2, contentapi.ExtractedGrammarTopic{}), ErrIndexOutOfRange)
	assert.ErrorIs(t, editor.RemoveGrammar(0), ErrIndexOutOfRange)
}

func TestGrammarEditing(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{
		GrammarTopics: []contentapi.ExtractedGrammarTopic{
			{Name: "past simple", Examples: []string{"I walked"}, Confidence: 0.7},
		},
	})
	editor := NewReviewEditor(ctrl)

	require.NoError(t, editor.AddGrammar())
	require.NoError(t, editor.UpdateGrammar(1, contentapi.ExtractedGrammarTopic{
		Name: "present perfect", Difficulty: "INTERMEDIATE", Confidence: 1.0,
	}))

	topics := ctrl.Content().GrammarTopics
	require.Len(t, topics, 2)
	assert.Equal(t, "present perfect", topics[1].Name)

	require.NoError(t, editor.RemoveGrammar(0))
	assert.Equal(t, "present perfect", ctrl.Content().GrammarTopics[0].Name)
}

func TestEditsDoNotAliasHeldContent(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{
		GrammarTopics: []contentapi.ExtractedGrammarTopic{
			{Name: "articles", Examples: []string{"a", "an"}},
		},
	})
	editor := NewReviewEditor(ctrl)

	got := editor.Content()
	got.GrammarTopics[0].Examples[0] = "mutated"

	assert.Equal(t, "mutated", ctrl.Content().GrammarTopics[0].Examples[0],
		"Content returns the held value; callers must Clone before editing")

	next := ctrl.Content().Clone()
	next.GrammarTopics[0].Examples[0] = "cloned"
	assert.NotEqual(t, "cloned", ctrl.Content().GrammarTopics[0].Examples[0])
}

func TestExercisesAreExposedButNotEditable(t *testing.T) {
	ctrl, _ := reviewController(t, contentapi.ExtractedContent{
		Exercises: []contentapi.ExtractedExercise{{Question: "fill the blank"}},
	})
	editor := NewReviewEditor(ctrl)

	require.Len(t, editor.Exercises(), 1)
	assert.False(t, editor.SaveEnabled())
}
