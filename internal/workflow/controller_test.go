package workflow

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"lexio/pkg/contentapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records calls and serves canned results.
type fakeAPI struct {
	uploadResult *contentapi.UploadResult
	uploadErr    error
	saveResult   *contentapi.SaveResult
	saveErr      error
	cleanupErr   error

	uploadCalls  int
	saveCalls    int
	cleanupCalls int

	savedSetID   string
	savedFileID  string
	savedVocab   []contentapi.ExtractedVocabularyItem
	savedGrammar []contentapi.ExtractedGrammarTopic
	cleanedIDs   []string
}

func (f *fakeAPI) UploadImage(ctx context.Context, filename, mimeType string, r io.Reader) (*contentapi.UploadResult, error) {
	f.uploadCalls++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeAPI) SaveToLearningSet(ctx context.Context, learningSetID, fileID string, vocabulary []contentapi.ExtractedVocabularyItem, grammar []contentapi.ExtractedGrammarTopic) (*contentapi.SaveResult, error) {
	f.saveCalls++
	f.savedSetID = learningSetID
	f.savedFileID = fileID
	f.savedVocab = vocabulary
	f.savedGrammar = grammar
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.saveResult, nil
}

func (f *fakeAPI) CleanupFile(ctx context.Context, fileID string) error {
	f.cleanupCalls++
	f.cleanedIDs = append(f.cleanedIDs, fileID)
	return f.cleanupErr
}

func appleUpload() *contentapi.UploadResult {
	return &contentapi.UploadResult{
		FileID:   "f1",
		Filename: "worksheet.jpg",
		ProcessingResult: contentapi.ImageProcessingResult{
			ExtractedContent: contentapi.ExtractedContent{
				Vocabulary: []contentapi.ExtractedVocabularyItem{
					{Word: "apple", Definition: "a fruit", Confidence: 0.9},
				},
			},
			Confidence: 0.9,
			SourceType: contentapi.SourcePrinted,
		},
	}
}

func validInput() FileInput {
	return FileInput{
		Filename: "worksheet.jpg",
		MIMEType: "image/jpeg",
		Size:     1024,
		Reader:   strings.NewReader("not a real jpeg"),
	}
}

func TestUploadMovesToReview(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)

	require.Equal(t, StateUpload, ctrl.State())
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	assert.Equal(t, StateReview, ctrl.State())
	assert.Equal(t, "f1", ctrl.FileID())
	assert.Equal(t, "apple", ctrl.Content().Vocabulary[0].Word)
	assert.InDelta(t, 0.9, ctrl.Result().Confidence, 1e-9)
	assert.Empty(t, ctrl.ErrMessage())
}

func TestUploadInvalidTypeNeverHitsNetwork(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)

	in := validInput()
	in.MIMEType = "application/pdf"
	err := ctrl.Upload(context.Background(), in)

	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, api.uploadCalls, "invalid file must not be uploaded")
	assert.Equal(t, StateUpload, ctrl.State())
	assert.NotEmpty(t, ctrl.ErrMessage())
}

func TestUploadOversizeNeverHitsNetwork(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)

	in := validInput()
	in.Size = MaxUploadBytes + 1
	err := ctrl.Upload(context.Background(), in)

	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Zero(t, api.uploadCalls)
}

func TestUploadFailureStaysAtUpload(t *testing.T) {
	api := &fakeAPI{uploadErr: errors.New("boom")}
	ctrl := New(api)

	err := ctrl.Upload(context.Background(), validInput())

	require.Error(t, err)
	assert.Equal(t, StateUpload, ctrl.State())
	assert.Equal(t, "boom", ctrl.ErrMessage())
}

func TestUploadNotAllowedInReview(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	err := ctrl.Upload(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, 1, api.uploadCalls)
}

func TestSaveSendsEditedContentAndCompletes(t *testing.T) {
	api := &fakeAPI{
		uploadResult: appleUpload(),
		saveResult: &contentapi.SaveResult{
			Message:         "Content saved to learning set",
			VocabularySaved: 2,
			LearningSetID:   "set-1",
		},
	}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	edited := ctrl.Content().Clone()
	edited.Vocabulary = append(edited.Vocabulary, contentapi.ExtractedVocabularyItem{
		Word: "pear", Definition: "another fruit", Confidence: 1.0,
	})
	require.NoError(t, ctrl.ApplyEdit(edited))

	res, err := ctrl.Save(context.Background(), "set-1")
	require.NoError(t, err)

	assert.Equal(t, StateComplete, ctrl.State())
	assert.Equal(t, 2, res.VocabularySaved)
	assert.Equal(t, "set-1", api.savedSetID)
	assert.Equal(t, "f1", api.savedFileID, "save must carry the temp-file handle so the source image gets archived")
	require.Len(t, api.savedVocab, 2, "save must send the edited content, not the original")
	assert.Equal(t, "pear", api.savedVocab[1].Word)
	assert.Equal(t, 1, api.cleanupCalls, "temp file is released after a successful save")
	assert.Equal(t, []string{"f1"}, api.cleanedIDs)
}

func TestSaveFailureReturnsToReviewKeepingEdits(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload(), saveErr: errors.New("server unavailable")}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	edited := ctrl.Content().Clone()
	edited.Vocabulary[0].Definition = "a round fruit"
	require.NoError(t, ctrl.ApplyEdit(edited))

	_, err := ctrl.Save(context.Background(), "set-1")
	require.Error(t, err)

	assert.Equal(t, StateReview, ctrl.State())
	assert.Equal(t, "a round fruit", ctrl.Content().Vocabulary[0].Definition)
	assert.Zero(t, api.cleanupCalls, "failed save must not release the file")
	assert.NotEmpty(t, ctrl.ErrMessage())
}

func TestSaveDisabledWhenBothListsEmpty(t *testing.T) {
	upload := appleUpload()
	upload.ProcessingResult.ExtractedContent = contentapi.ExtractedContent{
		Exercises: []contentapi.ExtractedExercise{{Question: "fill the blank", ExerciseType: "cloze"}},
	}
	api := &fakeAPI{uploadResult: upload}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	assert.False(t, ctrl.SaveEnabled(), "exercises alone do not enable save")
	_, err := ctrl.Save(context.Background(), "set-1")
	require.ErrorIs(t, err, ErrEmptyContent)
	assert.Zero(t, api.saveCalls)
}

func TestCancelReleasesFileOnce(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	ctrl.Cancel(context.Background())

	assert.Equal(t, StateUpload, ctrl.State())
	assert.Equal(t, 1, api.cleanupCalls)
	assert.Empty(t, ctrl.FileID())
	assert.True(t, ctrl.Content().Empty())

	// A second cancel has nothing left to release.
	ctrl.Cancel(context.Background())
	assert.Equal(t, 1, api.cleanupCalls)
}

func TestCancelCleanupFailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload(), cleanupErr: errors.New("gone already")}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	ctrl.Cancel(context.Background())

	assert.Equal(t, StateUpload, ctrl.State(), "cleanup failure must not block the reset")
	assert.Equal(t, 1, api.cleanupCalls)
}

func TestCancelBeforeUploadIsNoop(t *testing.T) {
	api := &fakeAPI{}
	ctrl := New(api)

	ctrl.Cancel(context.Background())

	assert.Equal(t, StateUpload, ctrl.State())
	assert.Zero(t, api.cleanupCalls, "no handle exists yet, nothing to clean")
}

func TestRetryReleasesAndReturnsToUpload(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload()}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))

	require.NoError(t, ctrl.Retry(context.Background()))

	assert.Equal(t, StateUpload, ctrl.State())
	assert.Equal(t, 1, api.cleanupCalls)

	// The controller is reusable for a fresh upload afterwards.
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))
	assert.Equal(t, StateReview, ctrl.State())
}

func TestSaveAfterCompleteRejected(t *testing.T) {
	api := &fakeAPI{uploadResult: appleUpload(), saveResult: &contentapi.SaveResult{LearningSetID: "set-1"}}
	ctrl := New(api)
	require.NoError(t, ctrl.Upload(context.Background(), validInput()))
	_, err := ctrl.Save(context.Background(), "set-1")
	require.NoError(t, err)

	_, err = ctrl.Save(context.Background(), "set-1")
	require.Error(t, err)
	assert.Equal(t, 1, api.saveCalls)
	assert.Equal(t, 1, api.cleanupCalls)
}
