package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kevinmichaelchen/googl-hunt/internal/logging"
	"github.com/kevinmichaelchen/googl-hunt/internal/models"
	"github.com/kevinmichaelchen/googl-hunt/internal/persist"
	"github.com/kevinmichaelchen/googl-hunt/internal/request"
)

const apiVersion = "2022-11-28"

var (
	ErrMissingLocation = errors.New("response has no location header")
	ErrMalformedURL    = errors.New("url has fewer than 5 path segments")
)

// ResolveDestination requests shortURL without following redirects and
// returns the Location it points at.
func (c *Client) ResolveDestination(ctx context.Context, shortURL string) (string, error) {
	resp, err := c.http.Do(ctx, request.Request{
		Method: request.MethodGet,
		URL:    shortURL,
	})
	if err != nil {
		return "", err
	}

	location, ok := resp.Location()
	if !ok {
		return "", fmt.Errorf("%w: %s returned %d", ErrMissingLocation, shortURL, resp.StatusCode)
	}
	return location, nil
}

// Fork asks GitHub to fork owner/repo into the token's account. A 202 is the
// only success; any other status is logged and reported as false without an
// error. 403, 404 and 422 (already forked) all land in that bucket.
func (c *Client) Fork(ctx context.Context, owner, repo string) (bool, error) {
	logger := logging.FromContext(ctx)

	resp, err := c.http.Do(ctx, request.Request{
		Method: request.MethodPost,
		URL:    fmt.Sprintf("%s/repos/%s/%s/forks", c.baseURL, owner, repo),
		Headers: map[string]string{
			"Authorization":        "Bearer " + c.token,
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": apiVersion,
		},
		Body: map[string]string{
			"name":                repo,
			"default_branch_only": "true",
		},
		FollowRedirects: true,
	})
	if err != nil {
		return false, err
	}

	if err := c.store.Write(ctx, persist.ForkResponseFile(repo), resp); err != nil {
		return false, err
	}

	if resp.StatusCode != http.StatusAccepted {
		logger.Error("fork failed", "repo", owner+"/"+repo, "status", resp.StatusCode, "body", resp.Text())
		return false, nil
	}

	var result models.ForkResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		logger.Warn("fork accepted but response is not JSON", "repo", owner+"/"+repo, "err", err)
		return true, nil
	}
	logger.Info("forked", "repo", owner+"/"+repo, "url", result.HTMLURL)
	return true, nil
}

// ParseURL takes the owner and repo from positions 3 and 4 of a URL split on
// "/", e.g. https://github.com/acme/widgets. The shape is not checked, so a
// URL from another host yields whatever sits in those positions.
func ParseURL(raw string) (owner, repo string, err error) {
	parts := strings.Split(raw, "/")
	if len(parts) < 5 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedURL, raw)
	}
	return parts[3], parts[4], nil
}
