package content

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"lexio/config"
	"lexio/internal/core/vocsearch"
	"lexio/internal/database"
	"lexio/internal/database/model"
	"lexio/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var removeVectors = vocsearch.RemoveLearningSet

var (
	ErrNotFound     = errors.New("resource not found")
	ErrAccessDenied = errors.New("not the owner of this resource")
	ErrNameRequired = errors.New("name is required")
)

// ListFilter narrows collection and learning-set listings. Zero values mean
// no filtering on that field.
type ListFilter struct {
	Search       string
	GradeLevel   string
	Subject      string
	CollectionID string
}

func applyFilter(q *gorm.DB, f ListFilter) *gorm.DB {
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if f.GradeLevel != "" {
		q = q.Where("grade_level = ?", f.GradeLevel)
	}
	if f.Subject != "" {
		q = q.Where("subject = ?", f.Subject)
	}
	return q
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EncodeExamples stores grammar example sentences as a JSON array string.
func EncodeExamples(examples []string) string {
	if len(examples) == 0 {
		return "[]"
	}
	b, err := json.Marshal(examples)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeExamples is the inverse of EncodeExamples; garbage decodes to nil.
func DecodeExamples(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// --- collections ---

// CollectionParams carries the writable fields of a collection.
type CollectionParams struct {
	Name        string
	Description string
	GradeLevel  string
	Subject     string
}

func ListCollections(ctx context.Context, userID string, f ListFilter) ([]model.Collection, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}
	var out []model.Collection
	q := applyFilter(db.WithContext(ctx).Where("created_by = ?", userID), f)
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func GetCollection(ctx context.Context, id string) (*model.Collection, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}
	var out model.Collection
	if err := db.WithContext(ctx).Preload("LearningSets").First(&out, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func CreateCollection(ctx context.Context, userID string, p CollectionParams) (*model.Collection, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	col := model.Collection{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Description: optional(p.Description),
		GradeLevel:  optional(p.GradeLevel),
		Subject:     optional(p.Subject),
		CreatedBy:   userID,
	}
	if err := database.CreateEntity(ctx, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

// UpdateCollection overwrites the writable fields. Only the creator may edit.
func UpdateCollection(ctx context.Context, userID, id string, p CollectionParams) (*model.Collection, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	existing, err := GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != userID {
		return nil, ErrAccessDenied
	}
	now := time.Now()
	updates := map[string]interface{}{
		"name":        strings.TrimSpace(p.Name),
		"description": optional(p.Description),
		"grade_level": optional(p.GradeLevel),
		"subject":     optional(p.Subject),
		"updated_at":  &now,
	}
	if err := database.UpdateEntityByID[model.Collection](ctx, id, updates); err != nil {
		return nil, err
	}
	return GetCollection(ctx, id)
}

// DeleteCollection removes the collection and its set links. The learning
// sets themselves survive.
func DeleteCollection(ctx context.Context, userID, id string) error {
	existing, err := GetCollection(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy != userID {
		return ErrAccessDenied
	}
	return database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM learning_set_collections WHERE collection_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Collection{}, "id = ?", id).Error
	})
}

// --- learning sets ---

// LearningSetParams carries the writable fields of a learning set, including
// the full replacement list of collection links.
type LearningSetParams struct {
	Name          string
	Description   string
	GradeLevel    string
	Subject       string
	CollectionIDs []string
}

func ListLearningSets(ctx context.Context, userID string, f ListFilter) ([]model.LearningSet, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}
	q := db.WithContext(ctx).Model(&model.LearningSet{}).
		Where("learning_sets.created_by = ?", userID)
	if f.CollectionID != "" {
		q = q.Joins("JOIN learning_set_collections lsc ON lsc.learning_set_id = learning_sets.id").
			Where("lsc.collection_id = ?", f.CollectionID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("learning_sets.name LIKE ? OR learning_sets.description LIKE ?", like, like)
	}
	if f.GradeLevel != "" {
		q = q.Where("learning_sets.grade_level = ?", f.GradeLevel)
	}
	if f.Subject != "" {
		q = q.Where("learning_sets.subject = ?", f.Subject)
	}
	var out []model.LearningSet
	if err := q.Preload("Collections").Order("learning_sets.created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetLearningSet loads a set with its collections, vocabulary and grammar.
func GetLearningSet(ctx context.Context, id string) (*model.LearningSet, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}
	var out model.LearningSet
	err = db.WithContext(ctx).
		Preload("Collections").
		Preload("VocabularyItems").
		Preload("GrammarTopics").
		First(&out, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func CreateLearningSet(ctx context.Context, userID string, p LearningSetParams) (*model.LearningSet, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	set := model.LearningSet{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Description: optional(p.Description),
		GradeLevel:  optional(p.GradeLevel),
		Subject:     optional(p.Subject),
		CreatedBy:   userID,
	}
	err := database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		return linkCollections(tx, set.ID, p.CollectionIDs)
	})
	if err != nil {
		return nil, err
	}
	return GetLearningSet(ctx, set.ID)
}

// UpdateLearningSet overwrites the writable fields and replaces the
// collection links with the provided list.
func UpdateLearningSet(ctx context.Context, userID, id string, p LearningSetParams) (*model.LearningSet, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNameRequired
	}
	existing, err := GetLearningSet(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != userID {
		return nil, ErrAccessDenied
	}
	now := time.Now()
	err = database.WithTx(ctx, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":        strings.TrimSpace(p.Name),
			"description": optional(p.Description),
			"grade_level": optional(p.GradeLevel),
			"subject":     optional(p.Subject),
			"updated_at":  &now,
		}
		if err := tx.Model(&model.LearningSet{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM learning_set_collections WHERE learning_set_id = ?", id).Error; err != nil {
			return err
		}
		return linkCollections(tx, id, p.CollectionIDs)
	})
	if err != nil {
		return nil, err
	}
	return GetLearningSet(ctx, id)
}

// DeleteLearningSet removes the set together with its items and links.
func DeleteLearningSet(ctx context.Context, userID, id string) error {
	existing, err := GetLearningSet(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy != userID {
		return ErrAccessDenied
	}
	err = database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM learning_set_collections WHERE learning_set_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.VocabularyItem{}, "learning_set_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.GrammarTopic{}, "learning_set_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.LearningSet{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	go unindexSet(id)
	return nil
}

// unindexSet drops the set's vectors so searches stop returning items that
// no longer exist. Removal is best effort; stale vectors only cost noise.
func unindexSet(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := removeVectors(ctx, id); err != nil {
		logger.Warn("%v: vector removal failed for set %s: %v", config.ModuleSearch, id, err)
	}
}

func linkCollections(tx *gorm.DB, setID string, collectionIDs []string) error {
	for _, colID := range collectionIDs {
		var count int64
		if err := tx.Model(&model.Collection{}).Where("id = ?", colID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Exec(
			"INSERT INTO learning_set_collections (learning_set_id, collection_id) VALUES (?, ?)",
			setID, colID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

// --- vocabulary and grammar items ---

// VocabularyParams carries one vocabulary entry to store.
type VocabularyParams struct {
	Word            string
	Definition      string
	ExampleSentence string
	PartOfSpeech    string
	DifficultyLevel string
}

// GrammarParams carries one grammar topic to store.
type GrammarParams struct {
	Name            string
	Description     string
	RuleExplanation string
	Examples        []string
	Difficulty      string
}

// AddVocabulary appends vocabulary entries to a learning set owned by userID.
func AddVocabulary(ctx context.Context, userID, setID string, items []VocabularyParams) ([]model.VocabularyItem, error) {
	set, err := GetLearningSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.CreatedBy != userID {
		return nil, ErrAccessDenied
	}
	rows := make([]model.VocabularyItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, model.VocabularyItem{
			ID:              uuid.NewString(),
			Word:            it.Word,
			Definition:      it.Definition,
			ExampleSentence: optional(it.ExampleSentence),
			PartOfSpeech:    optional(it.PartOfSpeech),
			DifficultyLevel: optional(it.DifficultyLevel),
			LearningSetID:   setID,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	err = database.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// AddGrammar appends grammar topics to a learning set owned by userID.
func AddGrammar(ctx context.Context, userID, setID string, topics []GrammarParams) ([]model.GrammarTopic, error) {
	set, err := GetLearningSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.CreatedBy != userID {
		return nil, ErrAccessDenied
	}
	rows := make([]model.GrammarTopic, 0, len(topics))
	for _, t := range topics {
		difficulty := t.Difficulty
		if difficulty == "" {
			difficulty = "BEGINNER"
		}
		rows = append(rows, model.GrammarTopic{
			ID:              uuid.NewString(),
			Name:            t.Name,
			Description:     t.Description,
			RuleExplanation: optional(t.RuleExplanation),
			Examples:        EncodeExamples(t.Examples),
			Difficulty:      difficulty,
			LearningSetID:   setID,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	err = database.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteVocabulary removes one vocabulary entry from a set owned by userID.
func DeleteVocabulary(ctx context.Context, userID, itemID string) error {
	item, err := database.GetEntityByID[model.VocabularyItem](ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	set, err := GetLearningSet(ctx, item.LearningSetID)
	if err != nil {
		return err
	}
	if set.CreatedBy != userID {
		return ErrAccessDenied
	}
	return database.DeleteEntityByID[model.VocabularyItem](ctx, itemID)
}

// DeleteGrammar removes one grammar topic from a set owned by userID.
func DeleteGrammar(ctx context.Context, userID, topicID string) error {
	topic, err := database.GetEntityByID[model.GrammarTopic](ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	set, err := GetLearningSet(ctx, topic.LearningSetID)
	if err != nil {
		return err
	}
	if set.CreatedBy != userID {
		return ErrAccessDenied
	}
	return database.DeleteEntityByID[model.GrammarTopic](ctx, topicID)
}

// DashboardCounts returns per-user content totals.
func DashboardCounts(ctx context.Context, userID string) (collections, sets, vocab, grammar int64, err error) {
	db, err := database.GetDB()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	q := db.WithContext(ctx)
	if err = q.Model(&model.Collection{}).Where("created_by = ?", userID).Count(&collections).Error; err != nil {
		return
	}
	if err = q.Model(&model.LearningSet{}).Where("created_by = ?", userID).Count(&sets).Error; err != nil {
		return
	}
	sub := q.Model(&model.LearningSet{}).Select("id").Where("created_by = ?", userID)
	if err = q.Model(&model.VocabularyItem{}).Where("learning_set_id IN (?)", sub).Count(&vocab).Error; err != nil {
		return
	}
	err = q.Model(&model.GrammarTopic{}).Where("learning_set_id IN (?)", sub).Count(&grammar).Error
	return
}
