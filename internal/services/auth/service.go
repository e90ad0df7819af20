package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"lexio/config"
	"lexio/internal/database"
	"lexio/internal/database/model"
	"lexio/pkg/token"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUser      = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
)

func bcryptCost() int {
	if c := config.Cfg.Auth.BcryptCost; c >= bcrypt.MinCost && c <= bcrypt.MaxCost {
		return c
	}
	return bcrypt.DefaultCost
}

// Register creates a new account. Username and email must both be unused.
func Register(ctx context.Context, username, email, password, fullName, role, gradeLevel, curriculumType string) (*model.User, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUser
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = "student"
	}
	user := model.User{
		ID:             uuid.NewString(),
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       fullName,
		Role:           role,
		IsActive:       true,
	}
	if gradeLevel != "" {
		user.GradeLevel = &gradeLevel
	}
	if curriculumType != "" {
		user.CurriculumType = &curriculumType
	}
	if err := database.CreateEntity(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns a signed access token plus
// the matched user.
func Authenticate(ctx context.Context, username, password string) (string, *model.User, error) {
	db, err := database.GetDB()
	if err != nil {
		return "", nil, err
	}

	var user model.User
	if err := db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInactiveAccount
	}

	signed, err := token.Sign(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return signed, &user, nil
}

// GetUser loads an active account by id.
func GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := database.GetEntityByID[model.User](ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}
	return user, nil
}

// ProfileUpdates is the set of editable profile fields; nil means unchanged.
type ProfileUpdates struct {
	Username       *string
	Email          *string
	FullName       *string
	GradeLevel     *string
	CurriculumType *string
}

// UpdateProfile applies the non-nil fields and returns the fresh record.
// Changing username or email re-checks uniqueness against other accounts.
func UpdateProfile(ctx context.Context, userID string, up ProfileUpdates) (*model.User, error) {
	db, err := database.GetDB()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if up.Username != nil {
		taken, err := identifierTaken(ctx, db, "username", *up.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateUser
		}
		updates["username"] = strings.TrimSpace(*up.Username)
	}
	if up.Email != nil {
		taken, err := identifierTaken(ctx, db, "email", *up.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateUser
		}
		updates["email"] = strings.TrimSpace(*up.Email)
	}
	if up.FullName != nil {
		updates["full_name"] = *up.FullName
	}
	if up.GradeLevel != nil {
		updates["grade_level"] = *up.GradeLevel
	}
	if up.CurriculumType != nil {
		updates["curriculum_type"] = *up.CurriculumType
	}
	if len(updates) > 0 {
		now := time.Now()
		updates["updated_at"] = &now
		if err := database.UpdateEntityByID[model.User](ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return GetUser(ctx, userID)
}

// Deactivate soft-disables the account; existing tokens stop working on the
// next lookup.
func Deactivate(ctx context.Context, userID string) error {
	return database.UpdateEntityByID[model.User](ctx, userID, map[string]interface{}{
		"is_active": false,
	})
}

func identifierTaken(ctx context.Context, db *gorm.DB, column, value, excludeID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.User{}).
		Where(column+" = ? AND id <> ?", strings.TrimSpace(value), excludeID).
		Count(&count).Error
	return count > 0, err
}
