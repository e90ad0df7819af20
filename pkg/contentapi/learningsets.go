package contentapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query renders the filter as request parameters, omitting blank fields.
func (f LearningSetFilter) Query() url.Values {
	q := url.Values{}
	if f.CollectionID != "" {
		q.Set("collection_id", f.CollectionID)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.GradeLevel != "" {
		q.Set("grade_level", f.GradeLevel)
	}
	if f.Subject != "" {
		q.Set("subject", f.Subject)
	}
	return q
}

// ListLearningSets fetches learning sets matching the filter.
func (c *Client) ListLearningSets(ctx context.Context, filter LearningSetFilter) ([]LearningSet, error) {
	var out []LearningSet
	if err := c.getJSON(ctx, "/content/learning-sets", filter.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLearningSet fetches one learning set with its vocabulary and grammar.
func (c *Client) GetLearningSet(ctx context.Context, id string) (*LearningSet, error) {
	var out LearningSet
	if err := c.getJSON(ctx, "/content/learning-sets/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLearningSet creates a learning set, optionally linked to collections.
func (c *Client) CreateLearningSet(ctx context.Context, params LearningSetParams) (*LearningSet, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	var out LearningSet
	if err := c.sendJSON(ctx, http.MethodPost, "/content/learning-sets", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateLearningSet replaces the writable fields of a learning set.
func (c *Client) UpdateLearningSet(ctx context.Context, id string, params LearningSetParams) (*LearningSet, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	var out LearningSet
	if err := c.sendJSON(ctx, http.MethodPut, "/content/learning-sets/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLearningSet removes a learning set and its items.
func (c *Client) DeleteLearningSet(ctx context.Context, id string) error {
	return c.delete(ctx, "/content/learning-sets/"+url.PathEscape(id))
}

// SearchVocabulary runs a semantic lookup over saved vocabulary. learningSetID
// narrows the search to one set when non-empty.
func (c *Client) SearchVocabulary(ctx context.Context, query, learningSetID string, topK int) ([]VocabularyHit, error) {
	q := url.Values{}
	q.Set("q", query)
	if learningSetID != "" {
		q.Set("learning_set_id", learningSetID)
	}
	if topK > 0 {
		q.Set("top_k", strconv.Itoa(topK))
	}
	var out struct {
		Hits []VocabularyHit `json:"hits"`
	}
	if err := c.getJSON(ctx, "/content/search", q, &out); err != nil {
		return nil, err
	}
	return out.Hits, nil
}
