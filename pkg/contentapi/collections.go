package contentapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ErrNameRequired is returned before any network call when a create or
// update is attempted with an empty name. All other validation is the
// server's job.
var ErrNameRequired = errors.New("name must not be empty")

// Query renders the filter as request parameters. Blank fields are absent,
// never sent as empty strings.
func (f CollectionFilter) Query() url.Values {
	q := url.Values{}
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

// ListCollections fetches collections matching the filter.
func (c *Client) ListCollections(ctx context.Context, filter CollectionFilter) ([]Collection, error) {
	var out []Collection
	if err := c.getJSON(ctx, "/content/collections", filter.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCollection fetches a single collection by id.
func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var out Collection
	if err := c.getJSON(ctx, "/content/collections/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCollection creates a new collection owned by the current user.
func (c *Client) CreateCollection(ctx context.Context, params CollectionParams) (*Collection, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	var out Collection
	if err := c.sendJSON(ctx, http.MethodPost, "/content/collections", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCollection replaces the writable fields of a collection.
func (c *Client) UpdateCollection(ctx context.Context, id string, params CollectionParams) (*Collection, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	var out Collection
	if err := c.sendJSON(ctx, http.MethodPut, "/content/collections/"+url.PathEscape(id), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCollection removes a collection. Learning sets linked to it survive;
// only the association is dropped.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.delete(ctx, "/content/collections/"+url.PathEscape(id))
}
