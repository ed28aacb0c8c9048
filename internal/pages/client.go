// Package pages fetches event data over HTTP for server side rendering callers.
package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joshua-takyi/devevent/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient talks to the API at baseURL. A nil httpClient gets a 10s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type eventEnvelope struct {
	Message string        `json:"message"`
	Event   *models.Event `json:"event"`
}

type eventsEnvelope struct {
	Events []*models.Event `json:"events"`
}

// Event returns models.ErrEventNotFound only when the API answers 404, so a
// caller can render a not found page for that case and fail for the rest.
func (c *Client) Event(ctx context.Context, slug string) (*models.Event, error) {
	s, err := models.NormalizeSlugParam(slug)
	if err != nil {
		return nil, err
	}

	var env eventEnvelope
	if err := c.get(ctx, "/api/v1/events/"+url.PathEscape(s), &env); err != nil {
		return nil, notFound(err, s)
	}
	if env.Event == nil {
		return nil, fmt.Errorf("event %s: response has no event", s)
	}
	return env.Event, nil
}

// SimilarEvents lists events sharing a tag with slug.
func (c *Client) SimilarEvents(ctx context.Context, slug string) ([]*models.Event, error) {
	s, err := models.NormalizeSlugParam(slug)
	if err != nil {
		return nil, err
	}

	var env eventsEnvelope
	if err := c.get(ctx, "/api/v1/events/"+url.PathEscape(s)+"/similar", &env); err != nil {
		return nil, notFound(err, s)
	}
	return env.Events, nil
}

func notFound(err error, slug string) error {
	if errors.Is(err, models.ErrEventNotFound) {
		return &models.NotFoundError{Slug: slug}
	}
	return err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return models.ErrEventNotFound
	case res.StatusCode < 200 || res.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("failed to fetch %s: status %d: %s", path, res.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
