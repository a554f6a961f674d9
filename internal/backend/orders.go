package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

// PostOrder sends an order submission. A returned error means the request
// never produced a response; any status, including non-2xx, comes back as a
// Response for the caller to classify.
func (c *Client) PostOrder(ctx context.Context, order *models.OrderSubmission) (*Response, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, c.orderURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, endpointOrders)
}
