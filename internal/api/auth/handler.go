package auth

import (
	"errors"

	"lexio/config"
	"lexio/internal/database/model"
	"lexio/internal/middleware"
	authsvc "lexio/internal/services/auth"
	"lexio/pkg/apperror"
	"lexio/pkg/apperror/status"
	"lexio/pkg/contentapi"

	"github.com/gofiber/fiber/v3"
)

func toUser(u *model.User) contentapi.User {
	out := contentapi.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.GradeLevel != nil {
		out.GradeLevel = *u.GradeLevel
	}
	if u.CurriculumType != nil {
		out.CurriculumType = *u.CurriculumType
	}
	return out
}

// HandleRegister creates a new account.
func HandleRegister(c fiber.Ctx) error {
	var req contentapi.RegisterParams
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleAuth, c, status.AuthInvalidRequestBody, "invalid request body")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.FullName == "" {
		return apperror.BadRequest(config.ModuleAuth, c, status.AuthMissingCredentials, "username, email, password and full_name are required")
	}

	user, err := authsvc.Register(c.Context(), req.Username, req.Email, req.Password, req.FullName, req.Role, req.GradeLevel, req.CurriculumType)
	if err != nil {
		if errors.Is(err, authsvc.ErrDuplicateUser) {
			return apperror.BadRequest(config.ModuleAuth, c, status.AuthDuplicateUser, "Username or email already registered")
		}
		return apperror.InternalError(config.ModuleAuth, c, status.AuthInternal, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUser(user))
}

// HandleLogin exchanges form credentials for a bearer token.
func HandleLogin(c fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return apperror.BadRequest(config.ModuleAuth, c, status.AuthMissingCredentials, "username and password are required")
	}

	signed, user, err := authsvc.Authenticate(c.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			return apperror.Unauthorized(config.ModuleAuth, c, status.AuthInvalidCredentials, "Incorrect username or password")
		case errors.Is(err, authsvc.ErrInactiveAccount):
			return apperror.Unauthorized(config.ModuleAuth, c, status.AuthInactiveAccount, "Account is deactivated")
		}
		return apperror.InternalError(config.ModuleAuth, c, status.AuthInternal, err)
	}

	return c.JSON(contentapi.LoginResult{
		AccessToken: signed,
		TokenType:   "bearer",
		User:        toUser(user),
	})
}

// HandleMe returns the caller's profile.
func HandleMe(c fiber.Ctx) error {
	user, err := authsvc.GetUser(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, authsvc.ErrUserNotFound) || errors.Is(err, authsvc.ErrInactiveAccount) {
			return apperror.Unauthorized(config.ModuleAuth, c, status.AuthTokenInvalid, "Could not validate credentials")
		}
		return apperror.InternalError(config.ModuleAuth, c, status.AuthInternal, err)
	}
	return c.JSON(toUser(user))
}

// HandleUpdateProfile applies partial profile edits.
func HandleUpdateProfile(c fiber.Ctx) error {
	var req contentapi.ProfileUpdate
	if err := c.Bind().Body(&req); err != nil {
		return apperror.BadRequest(config.ModuleAuth, c, status.AuthInvalidRequestBody, "invalid request body")
	}

	user, err := authsvc.UpdateProfile(c.Context(), middleware.UserID(c), authsvc.ProfileUpdates{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		GradeLevel:     req.GradeLevel,
		CurriculumType: req.CurriculumType,
	})
	if err != nil {
		if errors.Is(err, authsvc.ErrDuplicateUser) {
			return apperror.BadRequest(config.ModuleAuth, c, status.AuthDuplicateUser, "Username or email already in use")
		}
		return apperror.InternalError(config.ModuleAuth, c, status.AuthInternal, err)
	}
	return c.JSON(toUser(user))
}

// HandleLogout acknowledges logout. Tokens are stateless; clients discard
// them locally.
func HandleLogout(c fiber.Ctx) error {
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Successfully logged out",
	})
}

// HandleDeactivate disables the caller's account.
func HandleDeactivate(c fiber.Ctx) error {
	if err := authsvc.Deactivate(c.Context(), middleware.UserID(c)); err != nil {
		return apperror.InternalError(config.ModuleAuth, c, status.AuthInternal, err)
	}
	return apperror.Success(c, apperror.SuccessMessage{
		Code:    status.OK,
		Message: "Account deactivated",
	})
}
