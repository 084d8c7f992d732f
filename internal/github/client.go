package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
	"github.com/kevinmichaelchen/googl-hunt/internal/models"
	"github.com/kevinmichaelchen/googl-hunt/internal/persist"
	"github.com/kevinmichaelchen/googl-hunt/internal/request"
)

// SearchQuery is the literal substring looked up by code search.
const SearchQuery = "https://goo.gl"

// textMatchMediaType asks code search to include matched fragments.
const textMatchMediaType = "application/vnd.github.text-match+json"

var (
	ErrDecode  = errors.New("decoding search response")
	ErrNoItems = errors.New(`search response has no "items" key`)
)

// Client is a thin wrapper around the GitHub REST API.
type Client struct {
	token   string
	baseURL string
	http    *request.Client
	store   *persist.Store
}

func NewClient(token, baseURL string, http *request.Client, store *persist.Store) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		http:    http,
		store:   store,
	}
}

// Search runs a code search for SearchQuery, persists the raw body and
// returns the "items" array. Only the first page is fetched. The text-match
// media type is requested so items carry the fragments holding each link.
func (c *Client) Search(ctx context.Context) ([]models.CodeResult, error) {
	resp, err := c.search(ctx)
	if err != nil {
		return nil, err
	}
	return ParseItems(resp.Body)
}

// SearchRaw is Search without decoding; callers that cache the body use it.
func (c *Client) SearchRaw(ctx context.Context) (*request.Response, error) {
	return c.search(ctx)
}

func (c *Client) search(ctx context.Context) (*request.Response, error) {
	q := url.Values{"q": {SearchQuery}}
	resp, err := c.http.Do(ctx, request.Request{
		Method: request.MethodGet,
		URL:    c.baseURL + "/search/code?" + q.Encode(),
		Headers: map[string]string{
			"Authorization": "Token " + c.token,
			"Accept":        textMatchMediaType,
		},
		FollowRedirects: true,
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("code search", "status", resp.StatusCode)

	if err := c.store.Write(ctx, persist.CodeSearchFile, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ParseItems decodes a code search envelope and returns its items.
func ParseItems(body []byte) ([]models.CodeResult, error) {
	var envelope struct {
		Items *[]models.CodeResult `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if envelope.Items == nil {
		return nil, ErrNoItems
	}
	return *envelope.Items, nil
}
