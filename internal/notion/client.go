// Package notion mirrors library items into a Notion database through
// the official REST API. It is the only package that talks to the sync
// target; the engine drives it through the PageWriter interface.
package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/shelfmark/shelfmark/internal/models"
)

var (
	// ErrNotConfigured indicates the Notion token or database id is
	// missing from the stored provider config.
	ErrNotConfigured = errors.New("notion is not configured")
	// ErrRateLimited indicates Notion rejected a request for throughput.
	ErrRateLimited = errors.New("notion rate limit exceeded")
	// ErrUnauthorized indicates the integration token was rejected.
	ErrUnauthorized = errors.New("notion token rejected")
)

// PageWriter is the page-level surface the sync engine drives. *Client
// satisfies it; tests substitute a fake.
type PageWriter interface {
	CreatePage(ctx context.Context, properties notionapi.Properties) (string, error)
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) error
	QueryPages(ctx context.Context) ([]notionapi.Page, error)
}

// Client wraps the Notion SDK with the database binding and a rate
// limiter honoring Notion's 3 requests/second ceiling.
type Client struct {
	api        *notionapi.Client
	limiter    *rate.Limiter
	databaseID notionapi.DatabaseID
}

// New creates a client from the stored provider config. Credential
// carries the integration token, Extra1 the target database id.
func New(cfg *models.ApiConfig) (*Client, error) {
	if cfg == nil || cfg.Credential == "" || cfg.Extra1 == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(cfg.Credential)),
		limiter:    rate.NewLimiter(rate.Every(350*time.Millisecond), 1),
		databaseID: notionapi.DatabaseID(cfg.Extra1),
	}, nil
}

// CreatePage creates a page in the bound database and returns its id.
func (c *Client) CreatePage(ctx context.Context, properties notionapi.Properties) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: properties,
	})
	if err != nil {
		return "", mapError(err)
	}
	return string(page.ID), nil
}

// UpdatePage overwrites the mirrored properties of an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	_, err := c.api.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: properties,
	})
	if err != nil {
		return mapError(err)
	}
	return nil
}

// QueryPages returns every page in the bound database, following
// pagination cursors.
func (c *Client) QueryPages(ctx context.Context) ([]notionapi.Page, error) {
	var pages []notionapi.Page
	req := &notionapi.DatabaseQueryRequest{PageSize: 100}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		resp, err := c.api.Database.Query(ctx, c.databaseID, req)
		if err != nil {
			return nil, mapError(err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

// mapError converts SDK errors into the package's typed errors.
func mapError(err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 429 || apiErr.Code == "rate_limited":
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
		case apiErr.Status == 401 || apiErr.Code == "unauthorized" || apiErr.Code == "restricted_resource":
			return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
		}
	}
	return fmt.Errorf("notion: %w", err)
}
