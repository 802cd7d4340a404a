package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// resourcePrefix is the URI scheme for Shelfmark resources.
const resourcePrefix = "shelfmark://"

// parseItemURI extracts the item id from a shelfmark://item/{id} URI.
func parseItemURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, resourcePrefix+"item/") {
		return "", fmt.Errorf("invalid URI scheme: %s", uri)
	}
	id := strings.TrimPrefix(uri, resourcePrefix+"item/")
	if id == "" {
		return "", fmt.Errorf("empty id in URI: %s", uri)
	}
	return id, nil
}

// handleItemResource handles shelfmark://item/{id} resources.
func (s *Server) handleItemResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	id, err := parseItemURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItem(id)
	if err != nil {
		return nil, fmt.Errorf("item not found: %s", id)
	}
	detail, err := s.db.GetDetail(item)
	if err != nil {
		return nil, fmt.Errorf("failed to load detail: %w", err)
	}

	data, err := json.Marshal(toItemResponse(item, detail))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %v", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
