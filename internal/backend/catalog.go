package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/models"

	"go.uber.org/zap"
)

// StatusError is a non-2xx reply.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}

// FetchCategories retrieves the catalog's category list. Entries without a
// name or with a repeated id are dropped; a body that is not a JSON array is
// an error.
func (c *Client) FetchCategories(ctx context.Context) ([]models.Category, error) {
	req, err := newRequest(ctx, http.MethodGet, c.productURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req, endpointCategories)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &StatusError{Endpoint: endpointCategories, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return c.decodeCategories(resp.Body)
}

func (c *Client) decodeCategories(body []byte) ([]models.Category, error) {
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("failed to decode categories: expected a JSON array")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	categories := make([]models.Category, 0, len(raw))
	seen := make(map[models.ID]struct{}, len(raw))
	for i, entry := range raw {
		var cat models.Category
		if err := json.Unmarshal(entry, &cat); err != nil {
			c.logger.Warn("Dropping malformed category", zap.Int("index", i), zap.Error(err))
			continue
		}
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.ID == "" || cat.Name == "" {
			c.logger.Warn("Dropping category without id or name", zap.Int("index", i))
			continue
		}
		if _, dup := seen[cat.ID]; dup {
			c.logger.Warn("Dropping duplicate category", zap.String("id", string(cat.ID)))
			continue
		}
		seen[cat.ID] = struct{}{}
		categories = append(categories, cat)
	}

	return categories, nil
}
