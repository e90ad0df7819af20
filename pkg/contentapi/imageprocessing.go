package contentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// UploadImage posts one image as multipart form data and returns the temp-file
// handle plus the extraction result. Callers are expected to validate the file
// before this point; the server re-checks type and size regardless.
func (c *Client) UploadImage(ctx context.Context, filename, mimeType string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", mimeType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/image-processing/upload", nil, &body, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out UploadResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReprocessImage re-runs extraction over a previously uploaded file.
func (c *Client) ReprocessImage(ctx context.Context, fileID string) (*ImageProcessingResult, error) {
	var out ImageProcessingResult
	if err := c.sendJSON(ctx, http.MethodPost, "/image-processing/reprocess/"+url.PathEscape(fileID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveToLearningSet persists reviewed vocabulary and grammar into a learning
// set. The wire format is a multipart form with JSON-encoded item arrays.
// A non-empty fileID tells the server to archive the source image before the
// temp copy is released.
func (c *Client) SaveToLearningSet(ctx context.Context, learningSetID, fileID string, vocabulary []ExtractedVocabularyItem, grammar []ExtractedGrammarTopic) (*SaveResult, error) {
	vocabJSON, err := json.Marshal(vocabulary)
	if err != nil {
		return nil, err
	}
	grammarJSON, err := json.Marshal(grammar)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("learning_set_id", learningSetID)
	w.WriteField("vocabulary_items", string(vocabJSON))
	w.WriteField("grammar_topics", string(grammarJSON))
	if fileID != "" {
		w.WriteField("file_id", fileID)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/image-processing/save-to-learning-set", nil, &body, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var out SaveResult
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CleanupFile releases a server-side temp file. Best-effort at call sites:
// the workflow logs and swallows failures.
func (c *Client) CleanupFile(ctx context.Context, fileID string) error {
	return c.delete(ctx, "/image-processing/cleanup/"+url.PathEscape(fileID))
}
