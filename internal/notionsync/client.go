package notionsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jomei/notionapi"
)

// NotionService is the part of the Notion API the sync needs.
type NotionService interface {
	CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error)
	QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// NotionClient implements NotionService with jomei/notionapi. Calls that fail
// with a conflict or a 5xx response are retried with linear backoff.
type NotionClient struct {
	api     *notionapi.Client
	backoff time.Duration
}

// NewNotionClient creates a client for the given integration token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		api:     notionapi.NewClient(notionapi.Token(token)),
		backoff: retryBackoff,
	}
}

// CreatePage adds a page to the database.
func (n *NotionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	}

	var page *notionapi.Page
	err := retry(ctx, n.backoff, func() (err error) {
		page, err = n.api.Page.Create(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("CreatePage: %w", err)
	}
	return page, nil
}

// UpdatePage overwrites the given properties of a page.
func (n *NotionClient) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	req := &notionapi.PageUpdateRequest{Properties: properties}

	var page *notionapi.Page
	err := retry(ctx, n.backoff, func() (err error) {
		page, err = n.api.Page.Update(ctx, notionapi.PageID(pageID), req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("UpdatePage %s: %w", pageID, err)
	}
	return page, nil
}

// QueryDatabase fetches one page of database results.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	var resp *notionapi.DatabaseQueryResponse
	err := retry(ctx, n.backoff, func() (err error) {
		resp, err = n.api.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase: %w", err)
	}
	return resp, nil
}

// retry runs op up to maxAttempts times while it fails with a retryable
// Notion error.
func retry(ctx context.Context, backoff time.Duration, op func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(); err == nil || !retryable(err) || attempt == maxAttempts {
			return err
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
	return err
}

func retryable(err error) bool {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusConflict || apiErr.Status >= http.StatusInternalServerError
}

var _ NotionService = (*NotionClient)(nil)
