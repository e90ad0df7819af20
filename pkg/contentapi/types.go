package contentapi

import "time"

// SourceType reports whether an image held printed text, handwriting, or both.
type SourceType string

const (
	SourcePrinted     SourceType = "printed"
	SourceHandwritten SourceType = "handwritten"
	SourceMixed       SourceType = "mixed"
)

// ExtractedVocabularyItem is one vocabulary entry produced by the extractor.
// It is transient: mutated during review, discarded once saved or cancelled.
type ExtractedVocabularyItem struct {
	Word            string  `json:"word"`
	Definition      string  `json:"definition,omitempty"`
	ExampleSentence string  `json:"example_sentence,omitempty"`
	PartOfSpeech    string  `json:"part_of_speech,omitempty"`
	Confidence      float64 `json:"confidence"`
}

type ExtractedGrammarTopic struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	RuleExplanation string   `json:"rule_explanation,omitempty"`
	Examples        []string `json:"examples,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	Confidence      float64  `json:"confidence"`
}

// ExtractedExercise is display-only: reviewers never edit exercises.
type ExtractedExercise struct {
	Question     string  `json:"question"`
	Answer       string  `json:"answer,omitempty"`
	ExerciseType string  `json:"exercise_type"`
	Difficulty   string  `json:"difficulty,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// ExtractedContent is the unit held by the workflow controller. Edits replace
// the whole value; it is never partially merged.
type ExtractedContent struct {
	Vocabulary    []ExtractedVocabularyItem `json:"vocabulary"`
	GrammarTopics []ExtractedGrammarTopic   `json:"grammar_topics"`
	Exercises     []ExtractedExercise       `json:"exercises"`
}

// Empty reports whether nothing at all was extracted.
func (c ExtractedContent) Empty() bool {
	return len(c.Vocabulary) == 0 && len(c.GrammarTopics) == 0 && len(c.Exercises) == 0
}

// Clone returns a deep copy so callers can edit without aliasing the held value.
func (c ExtractedContent) Clone() ExtractedContent {
	out := ExtractedContent{
		Vocabulary:    make([]ExtractedVocabularyItem, len(c.Vocabulary)),
		GrammarTopics: make([]ExtractedGrammarTopic, len(c.GrammarTopics)),
		Exercises:     make([]ExtractedExercise, len(c.Exercises)),
	}
	copy(out.Vocabulary, c.Vocabulary)
	copy(out.Exercises, c.Exercises)
	for i, g := range c.GrammarTopics {
		if g.Examples != nil {
			g.Examples = append([]string(nil), g.Examples...)
		}
		out.GrammarTopics[i] = g
	}
	return out
}

// ImageProcessingResult is the extractor's verdict for one image.
type ImageProcessingResult struct {
	ExtractedContent    ExtractedContent `json:"extracted_content"`
	Confidence          float64          `json:"confidence"`
	SourceType          SourceType       `json:"source_type"`
	SuggestedGradeLevel string           `json:"suggested_grade_level,omitempty"`
	NeedsReview         bool             `json:"needs_review"`
	ProcessingNotes     string           `json:"processing_notes,omitempty"`
}

// UploadResult pairs the ephemeral temp-file handle with the first
// processing pass. The file_id must be released via CleanupFile.
type UploadResult struct {
	FileID           string                `json:"file_id"`
	Filename         string                `json:"filename"`
	ProcessingResult ImageProcessingResult `json:"processing_result"`
}

// SaveResult confirms a save-to-learning-set call.
type SaveResult struct {
	Message         string `json:"message"`
	VocabularySaved int    `json:"vocabulary_saved"`
	GrammarSaved    int    `json:"grammar_saved"`
	LearningSetID   string `json:"learning_set_id"`
}

// Collection is a named grouping of learning sets.
type Collection struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	GradeLevel  string     `json:"grade_level,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// LearningSet bundles vocabulary and grammar, linked to zero or more collections.
type LearningSet struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	GradeLevel    string           `json:"grade_level,omitempty"`
	Subject       string           `json:"subject,omitempty"`
	CollectionIDs []string         `json:"collection_ids"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
	Vocabulary    []VocabularyItem `json:"vocabulary_items,omitempty"`
	GrammarTopics []GrammarTopic   `json:"grammar_topics,omitempty"`
}

type VocabularyItem struct {
	ID              string    `json:"id"`
	Word            string    `json:"word"`
	Definition      string    `json:"definition"`
	ExampleSentence string    `json:"example_sentence,omitempty"`
	PartOfSpeech    string    `json:"part_of_speech,omitempty"`
	DifficultyLevel string    `json:"difficulty_level,omitempty"`
	LearningSetID   string    `json:"learning_set_id"`
	CreatedAt       time.Time `json:"created_at"`
}

type GrammarTopic struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	RuleExplanation string    `json:"rule_explanation,omitempty"`
	Examples        []string  `json:"examples,omitempty"`
	Difficulty      string    `json:"difficulty"`
	LearningSetID   string    `json:"learning_set_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// User is the authenticated account profile.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Role           string     `json:"role"`
	GradeLevel     string     `json:"grade_level,omitempty"`
	CurriculumType string     `json:"curriculum_type,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// LoginResult is the token payload returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// CollectionParams carries the writable fields of a collection.
type CollectionParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	GradeLevel  string `json:"grade_level,omitempty"`
	Subject     string `json:"subject,omitempty"`
}

// LearningSetParams carries the writable fields of a learning set.
type LearningSetParams struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	GradeLevel    string   `json:"grade_level,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	CollectionIDs []string `json:"collection_ids,omitempty"`
}

// CollectionFilter narrows a collection listing. A blank field means
// "no filter" and is omitted from the request entirely.
type CollectionFilter struct {
	Search     string
	GradeLevel string
	Subject    string
}

// LearningSetFilter narrows a learning-set listing. Blank means no filter.
type LearningSetFilter struct {
	CollectionID string
	Search       string
	GradeLevel   string
	Subject      string
}

// RegisterParams carries a new account registration.
type RegisterParams struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	Role           string `json:"role,omitempty"`
	GradeLevel     string `json:"grade_level,omitempty"`
	CurriculumType string `json:"curriculum_type,omitempty"`
}

// ProfileUpdate carries profile edits; nil fields are left unchanged.
type ProfileUpdate struct {
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	FullName       *string `json:"full_name,omitempty"`
	GradeLevel     *string `json:"grade_level,omitempty"`
	CurriculumType *string `json:"curriculum_type,omitempty"`
}

// DashboardSummary is the per-user content totals shown on the dashboard.
type DashboardSummary struct {
	Collections     int64 `json:"collections"`
	LearningSets    int64 `json:"learning_sets"`
	VocabularyItems int64 `json:"vocabulary_items"`
	GrammarTopics   int64 `json:"grammar_topics"`
}

// VocabularyHit is one semantic-search result.
type VocabularyHit struct {
	VocabularyID  string  `json:"vocabulary_id"`
	LearningSetID string  `json:"learning_set_id"`
	Word          string  `json:"word"`
	Definition    string  `json:"definition,omitempty"`
	Score         float32 `json:"score"`
}
