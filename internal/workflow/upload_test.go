package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImageAcceptsAllowedTypes(t *testing.T) {
	for _, mime := range []string{
		"image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff", "image/webp",
	} {
		err := ValidateImage(FileInput{
			Filename: "pic",
			MIMEType: mime,
			Size:     100,
			Reader:   strings.NewReader("x"),
		})
		assert.NoError(t, err, mime)
	}
}

func TestValidateImageRejectsOtherTypes(t *testing.T) {
	for _, mime := range []string{"application/pdf", "text/plain", "image/svg+xml", ""} {
		err := ValidateImage(FileInput{MIMEType: mime, Size: 100})
		require.ErrorIs(t, err, ErrUnsupportedType, mime)
	}
}

func TestValidateImageSizeCeiling(t *testing.T) {
	assert.NoError(t, ValidateImage(FileInput{MIMEType: "image/png", Size: MaxUploadBytes}))
	assert.ErrorIs(t, ValidateImage(FileInput{MIMEType: "image/png", Size: MaxUploadBytes + 1}), ErrFileTooLarge)
}

func TestValidateImageEmptyFile(t *testing.T) {
	assert.ErrorIs(t, ValidateImage(FileInput{MIMEType: "image/png", Size: 0}), ErrEmptyFile)
}
