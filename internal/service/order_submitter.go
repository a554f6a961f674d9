package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// emailPattern accepts local@domain.tld shapes with no whitespace.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// OrderSender delivers an order to the order service.
type OrderSender interface {
	PostOrder(ctx context.Context, order *models.OrderSubmission) (*backend.Response, error)
}

// OrderSubmitter validates a form and cart, sends them as one order and
// classifies the outcome. It does not touch application state.
type OrderSubmitter struct {
	sender OrderSender
	now    func() time.Time
	logger *zap.Logger
}

// NewOrderSubmitter creates a new order submitter
func NewOrderSubmitter(sender OrderSender) *OrderSubmitter {
	return &OrderSubmitter{
		sender: sender,
		now:    time.Now,
		logger: util.GetLogger(),
	}
}

// Validate runs the local checks in order: required fields, email shape,
// non-empty cart.
func (s *OrderSubmitter) Validate(form models.OrderForm, c cart.Cart) error {
	if strings.TrimSpace(form.FullName) == "" ||
		strings.TrimSpace(form.FullAddress) == "" ||
		strings.TrimSpace(form.Email) == "" {
		return &ValidationError{Kind: MissingFields}
	}
	if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		return &ValidationError{Kind: InvalidEmail}
	}
	if c.IsEmpty() {
		return &ValidationError{Kind: EmptyCart}
	}
	return nil
}

// BuildSubmission converts form and cart to the order wire format.
func (s *OrderSubmitter) BuildSubmission(form models.OrderForm, c cart.Cart) *models.OrderSubmission {
	lines := c.Lines()
	products := make([]models.OrderProduct, 0, len(lines))
	for _, line := range lines {
		products = append(products, models.OrderProduct{
			Category: line.Category,
			Name:     line.Name,
			Quantity: line.Quantity,
		})
	}

	return &models.OrderSubmission{
		Customer: models.Customer{
			FullName:    strings.TrimSpace(form.FullName),
			FullAddress: strings.TrimSpace(form.FullAddress),
			Email:       strings.TrimSpace(form.Email),
		},
		Products:  products,
		OrderDate: s.now().UTC(),
	}
}

// Submit validates, sends a single request and classifies the reply. There
// is no retry.
func (s *OrderSubmitter) Submit(ctx context.Context, form models.OrderForm, c cart.Cart) (*models.OrderConfirmation, error) {
	ctx, span := util.StartSpan(ctx, "OrderSubmitter.Submit")
	defer span.End()

	if err := s.Validate(form, c); err != nil {
		kind := err.(*ValidationError).Kind
		util.OrderValidationFailedTotal.WithLabelValues(string(kind)).Inc()
		span.SetAttributes(attribute.String("validation.kind", string(kind)))
		return nil, err
	}

	order := s.BuildSubmission(form, c)
	span.SetAttributes(attribute.Int("order.products", len(order.Products)))

	resp, err := s.sender.PostOrder(ctx, order)
	if err != nil {
		util.OrderSubmissionsTotal.WithLabelValues(string(SubmissionTransport)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		s.logger.Error("Order submission failed", zap.Error(err))
		return nil, &SubmissionError{Kind: SubmissionTransport, Err: err}
	}

	if !resp.OK() {
		serverMessage := rejectionMessage(resp)
		util.OrderSubmissionsTotal.WithLabelValues(string(SubmissionRejected)).Inc()
		span.SetStatus(codes.Error, "rejected")
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		s.logger.Error("Order rejected by order service",
			zap.Int("status", resp.StatusCode),
			zap.String("message", serverMessage))
		return nil, &SubmissionError{
			Kind:          SubmissionRejected,
			StatusCode:    resp.StatusCode,
			ServerMessage: serverMessage,
		}
	}

	util.OrderSubmissionsTotal.WithLabelValues("confirmed").Inc()
	confirmation := &models.OrderConfirmation{}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, confirmation); err != nil {
			s.logger.Debug("Order response body not understood", zap.Error(err))
			confirmation = &models.OrderConfirmation{}
		}
	}

	s.logger.Info("Order confirmed",
		zap.String("order_id", string(confirmation.ID)),
		zap.Int("products", len(order.Products)))
	return confirmation, nil
}

// rejectionMessage prefers the service's "message" field, which may be a
// string or a list of strings, and falls back to the status line.
func rejectionMessage(resp *backend.Response) string {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil || len(body.Message) == 0 {
		return status
	}

	var text string
	if err := json.Unmarshal(body.Message, &text); err == nil && strings.TrimSpace(text) != "" {
		return text
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	return status
}
