package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/util"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// maxBodyBytes bounds every response body read from the remote services.
const maxBodyBytes = 1 << 20

// ErrResponseTooLarge is returned for bodies longer than maxBodyBytes.
var ErrResponseTooLarge = errors.New("response body exceeds 1 MiB")

const (
	endpointCategories = "categories"
	endpointOrders     = "orders"
)

// Client talks to the catalog and order services.
type Client struct {
	http       *http.Client
	productURL string
	orderURL   string
	logger     *zap.Logger
}

// NewClient creates a client for the two storefront endpoints. productURL is
// fetched as is; orders are posted to orderURL + "/orders".
func NewClient(productURL, orderURL string, timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		productURL: productURL,
		orderURL:   orderURL,
		logger:     util.GetLogger(),
	}
}

// Response is a fully read reply from a remote service.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportError means no usable HTTP response was received.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// do sends req and reads the body exactly once.
func (c *Client) do(req *http.Request, endpoint string) (*Response, error) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		util.BackendRequestDuration.WithLabelValues(endpoint, "transport_error").Observe(time.Since(start).Seconds())
		c.logger.Warn("Backend request failed",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	util.BackendRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	if len(body) > maxBodyBytes {
		c.logger.Warn("Backend response too large",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode))
		return nil, &TransportError{Endpoint: endpoint, Err: ErrResponseTooLarge}
	}

	c.logger.Debug("Backend request completed",
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("body_bytes", len(body)))

	return &Response{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}, nil
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return req, nil
}
