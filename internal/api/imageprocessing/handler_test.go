package imageprocessing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lexio/config"
	"lexio/internal/middleware"
	"lexio/pkg/apperror"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanupOldApp(role string) *fiber.App {
	app := fiber.New()
	app.Post("/image-processing/cleanup-old", func(c fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, "u1")
		c.Locals(middleware.LocalRole, role)
		return c.Next()
	}, HandleCleanupOld)
	return app
}

func TestCleanupOldRejectsNonTeachers(t *testing.T) {
	app := cleanupOldApp("student")

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/image-processing/cleanup-old", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var body apperror.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Not enough permissions", body.Detail)
}

func TestCleanupOldHonorsMaxAgeOverride(t *testing.T) {
	dir := t.TempDir()
	old := config.Cfg.Image.TempDir
	config.Cfg.Image.TempDir = dir
	t.Cleanup(func() { config.Cfg.Image.TempDir = old })

	oldPath := filepath.Join(dir, "aged.jpg")
	freshPath := filepath.Join(dir, "fresh.jpg")
	require.NoError(t, os.WriteFile(oldPath, []byte("old"), 0o644))
	require.NoError(t, os.WriteFile(freshPath, []byte("fresh"), 0o644))
	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	app := cleanupOldApp("teacher")
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/image-processing/cleanup-old?max_age_hours=1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body apperror.SuccessMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data, ok := body.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), data["removed"])

	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, freshPath)
}
