package workflow

import (
	"errors"

	"lexio/pkg/contentapi"
)

var ErrIndexOutOfRange = errors.New("no entry at that position")

// ReviewEditor exposes the review step's three lists. Vocabulary and grammar
// entries are editable by position; exercises are display-only. Every
// mutation hands the controller a full replacement content value rather than
// an incremental diff.
type ReviewEditor struct {
	ctrl *Controller
}

func NewReviewEditor(ctrl *Controller) *ReviewEditor {
	return &ReviewEditor{ctrl: ctrl}
}

func (r *ReviewEditor) Content() contentapi.ExtractedContent {
	return r.ctrl.Content()
}

// Exercises returns the read-only exercise list.
func (r *ReviewEditor) Exercises() []contentapi.ExtractedExercise {
	return r.ctrl.Content().Exercises
}

func (r *ReviewEditor) SaveEnabled() bool { return r.ctrl.SaveEnabled() }

// UpdateVocabulary replaces the vocabulary entry at position i.
func (r *ReviewEditor) UpdateVocabulary(i int, item contentapi.ExtractedVocabularyItem) error {
	next := r.ctrl.Content().Clone()
	if i < 0 || i >= len(next.Vocabulary) {
		return ErrIndexOutOfRange
	}
	next.Vocabulary[i] = item
	return r.ctrl.ApplyEdit(next)
}

// AddVocabulary appends a blank entry with confidence preset to 1.0, since a
// hand-entered item is not an extractor guess.
func (r *ReviewEditor) AddVocabulary() error {
	next := r.ctrl.Content().Clone()
	next.Vocabulary = append(next.Vocabulary, contentapi.ExtractedVocabularyItem{Confidence: 1.0})
	return r.ctrl.ApplyEdit(next)
}

// RemoveVocabulary deletes the entry at position i.
func (r *ReviewEditor) RemoveVocabulary(i int) error {
	next := r.ctrl.Content().Clone()
	if i < 0 || i >= len(next.Vocabulary) {
		return ErrIndexOutOfRange
	}
	next.Vocabulary = append(next.Vocabulary[:i], next.Vocabulary[i+1:]...)
	return r.ctrl.ApplyEdit(next)
}

// UpdateGrammar replaces the grammar entry at position i.
func (r *ReviewEditor) UpdateGrammar(i int, topic contentapi.ExtractedGrammarTopic) error {
	next := r.ctrl.Content().Clone()
	if i < 0 || i >= len(next.GrammarTopics) {
		return ErrIndexOutOfRange
	}
	next.GrammarTopics[i] = topic
	return r.ctrl.ApplyEdit(next)
}

// AddGrammar appends a blank grammar topic with confidence 1.0.
func (r *ReviewEditor) AddGrammar() error {
	next := r.ctrl.Content().Clone()
	next.GrammarTopics = append(next.GrammarTopics, contentapi.ExtractedGrammarTopic{Confidence: 1.0})
	return r.ctrl.ApplyEdit(next)
}

// RemoveGrammar deletes the grammar entry at position i.
func (r *ReviewEditor) RemoveGrammar(i int) error {
	next := r.ctrl.Content().Clone()
	if i < 0 || i >= len(next.GrammarTopics) {
		return ErrIndexOutOfRange
	}
	next.GrammarTopics = append(next.GrammarTopics[:i], next.GrammarTopics[i+1:]...)
	return r.ctrl.ApplyEdit(next)
}
