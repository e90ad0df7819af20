// Package workflow drives the image extraction flow against the content API:
// upload an image, review and edit the extracted content, save it into a
// learning set. The controller is the single source of truth for the
// in-flight extraction result and owns the server-side temp-file handle for
// the duration of one workflow instance.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lexio/config"
	"lexio/pkg/contentapi"
	"lexio/pkg/logger"
)

// State names the current workflow step.
type State string

const (
	StateUpload   State = "upload"
	StateReview   State = "review"
	StateSaving   State = "saving"
	StateComplete State = "complete"
)

// API is the slice of the content API the controller needs. Satisfied by
// *contentapi.Client; tests substitute a recording fake.
type API interface {
	UploadImage(ctx context.Context, filename, mimeType string, r io.Reader) (*contentapi.UploadResult, error)
	SaveToLearningSet(ctx context.Context, learningSetID, fileID string, vocabulary []contentapi.ExtractedVocabularyItem, grammar []contentapi.ExtractedGrammarTopic) (*contentapi.SaveResult, error)
	CleanupFile(ctx context.Context, fileID string) error
}

var ErrEmptyContent = errors.New("nothing to save: no vocabulary or grammar")

// Controller sequences upload -> review -> saving -> complete. It is meant
// for single-goroutine, event-driven use; it performs no locking of its own.
type Controller struct {
	api API

	state     State
	fileID    string
	filename  string
	result    contentapi.ImageProcessingResult
	content   contentapi.ExtractedContent
	errMsg    string
	uploading bool
	released  bool
}

func New(api API) *Controller {
	return &Controller{api: api, state: StateUpload}
}

func (c *Controller) State() State { return c.state }

// ErrMessage is the message shown in the inline error banner, empty when none.
func (c *Controller) ErrMessage() string { return c.errMsg }

// Content returns the currently held extraction content.
func (c *Controller) Content() contentapi.ExtractedContent { return c.content }

// Result returns the full processing result from the last upload.
func (c *Controller) Result() contentapi.ImageProcessingResult { return c.result }

func (c *Controller) FileID() string { return c.fileID }

// Upload validates the file and, only if valid, issues the upload call.
// A validation failure or upload failure leaves the state at upload with the
// error recorded; success moves to review with the extracted content held.
func (c *Controller) Upload(ctx context.Context, in FileInput) error {
	if c.state != StateUpload {
		return fmt.Errorf("upload not allowed in state %q", c.state)
	}
	if c.uploading {
		return ErrUploadInFlight
	}
	if err := ValidateImage(in); err != nil {
		c.errMsg = err.Error()
		return err
	}

	c.uploading = true
	defer func() { c.uploading = false }()

	res, err := c.api.UploadImage(ctx, in.Filename, in.MIMEType, in.Reader)
	if err != nil {
		c.errMsg = err.Error()
		return err
	}

	c.fileID = res.FileID
	c.filename = res.Filename
	c.result = res.ProcessingResult
	c.content = res.ProcessingResult.ExtractedContent
	c.errMsg = ""
	c.released = false
	c.state = StateReview
	return nil
}

// ApplyEdit replaces the held content wholesale. Partial merges are never
// performed, so the review step and the controller cannot disagree about the
// current value.
func (c *Controller) ApplyEdit(content contentapi.ExtractedContent) error {
	if c.state != StateReview {
		return fmt.Errorf("edit not allowed in state %q", c.state)
	}
	c.content = content
	return nil
}

// SaveEnabled reports whether a save may be requested. Saving is pointless
// when both editable lists are empty.
func (c *Controller) SaveEnabled() bool {
	return c.state == StateReview &&
		(len(c.content.Vocabulary) > 0 || len(c.content.GrammarTopics) > 0)
}

// Save sends the held content to the target learning set. On success the
// temp file is released best-effort and the workflow completes; a release
// failure is logged but does not fail the save. On failure the state returns
// to review with the edited content intact so the user can retry.
func (c *Controller) Save(ctx context.Context, learningSetID string) (*contentapi.SaveResult, error) {
	if c.state != StateReview {
		return nil, fmt.Errorf("save not allowed in state %q", c.state)
	}
	if !c.SaveEnabled() {
		return nil, ErrEmptyContent
	}

	c.state = StateSaving
	res, err := c.api.SaveToLearningSet(ctx, learningSetID, c.fileID, c.content.Vocabulary, c.content.GrammarTopics)
	if err != nil {
		c.errMsg = err.Error()
		c.state = StateReview
		return nil, err
	}

	c.releaseFile(ctx)
	c.errMsg = ""
	c.state = StateComplete
	return res, nil
}

// Cancel abandons the workflow from any non-terminal state, releasing the
// temp-file handle best-effort, and resets the controller for a fresh upload.
func (c *Controller) Cancel(ctx context.Context) {
	if c.state == StateComplete {
		return
	}
	c.releaseFile(ctx)
	c.reset()
}

// Retry discards the current result and error and returns to the upload
// step. The abandoned temp file is released best-effort on the way out.
func (c *Controller) Retry(ctx context.Context) error {
	if c.state != StateReview {
		return fmt.Errorf("retry not allowed in state %q", c.state)
	}
	c.releaseFile(ctx)
	c.reset()
	return nil
}

// releaseFile issues at most one cleanup call per handle. Failures are
// swallowed: cleanup is best-effort and must never block the primary flow.
func (c *Controller) releaseFile(ctx context.Context) {
	if c.fileID == "" || c.released {
		return
	}
	c.released = true
	if err := c.api.CleanupFile(ctx, c.fileID); err != nil {
		logger.Warn("%v: temp file cleanup failed for %s: %v", config.ModuleWorkflow, c.fileID, err)
	}
}

func (c *Controller) reset() {
	c.fileID = ""
	c.filename = ""
	c.result = contentapi.ImageProcessingResult{}
	c.content = contentapi.ExtractedContent{}
	c.errMsg = ""
	c.released = false
	c.state = StateUpload
}
