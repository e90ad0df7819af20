package model

import "time"

// User is a registered account. Role is one of student, teacher, parent.
type User struct {
	ID             string `gorm:"primaryKey;size:36"`
	Username       string `gorm:"size:50;uniqueIndex;not null"`
	Email          string `gorm:"size:100;uniqueIndex;not null"`
	HashedPassword string `gorm:"size:255;not null"`
	FullName       string `gorm:"size:100;not null"`
	Role           string `gorm:"size:20;not null;default:student"`
	GradeLevel     *string `gorm:"size:20"`
	CurriculumType *string `gorm:"size:50"`
	IsActive       bool    `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Collection is a named grouping of learning sets.
type Collection struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"size:100;not null"`
	Description *string `gorm:"type:text"`
	GradeLevel  *string `gorm:"size:20"`
	Subject     *string `gorm:"size:50"`
	CreatedBy   string  `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	LearningSets []LearningSet `gorm:"many2many:learning_set_collections"`
}

// LearningSet bundles vocabulary items and grammar topics. A set can belong
// to any number of collections.
type LearningSet struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Name        string  `gorm:"size:100;not null"`
	Description *string `gorm:"type:text"`
	GradeLevel  *string `gorm:"size:20"`
	Subject     *string `gorm:"size:50"`
	CreatedBy   string  `gorm:"size:36;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time

	Collections     []Collection     `gorm:"many2many:learning_set_collections"`
	VocabularyItems []VocabularyItem `gorm:"foreignKey:LearningSetID"`
	GrammarTopics   []GrammarTopic   `gorm:"foreignKey:LearningSetID"`
}

type VocabularyItem struct {
	ID              string  `gorm:"primaryKey;size:36"`
	Word            string  `gorm:"size:100;not null"`
	Definition      string  `gorm:"type:text;not null"`
	ExampleSentence *string `gorm:"type:text"`
	PartOfSpeech    *string `gorm:"size:20"`
	DifficultyLevel *string `gorm:"size:20"`
	LearningSetID   string  `gorm:"size:36;not null;index"`
	CreatedAt       time.Time
}

// GrammarTopic stores its example sentences as a JSON-encoded string column.
type GrammarTopic struct {
	ID              string  `gorm:"primaryKey;size:36"`
	Name            string  `gorm:"size:100;not null"`
	Description     string  `gorm:"type:text;not null"`
	RuleExplanation *string `gorm:"type:text"`
	Examples        string  `gorm:"type:text"`
	Difficulty      string  `gorm:"size:20;not null;default:BEGINNER"`
	LearningSetID   string  `gorm:"size:36;not null;index"`
	CreatedAt       time.Time
}
