package workflow

import (
	"errors"
	"fmt"
	"io"
)

// MaxUploadBytes is the client-side ceiling for one image upload.
const MaxUploadBytes = 10 << 20

var allowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/bmp":  {},
	"image/tiff": {},
	"image/webp": {},
}

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrFileTooLarge    = errors.New("file size too large, maximum is 10MB")
	ErrEmptyFile       = errors.New("empty file")
	ErrUploadInFlight  = errors.New("an upload is already in progress")
)

// FileInput is one picked or dropped file. Size must be known up front so
// oversized files are rejected before any bytes move.
type FileInput struct {
	Filename string
	MIMEType string
	Size     int64
	Reader   io.Reader
}

// ValidateImage enforces the MIME allow-list and size ceiling. It never
// touches the network; a failure here means no request is issued at all.
func ValidateImage(in FileInput) error {
	if in.Size <= 0 {
		return ErrEmptyFile
	}
	if _, ok := allowedMIMETypes[in.MIMEType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, in.MIMEType)
	}
	if in.Size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	return nil
}
