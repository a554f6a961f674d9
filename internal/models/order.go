package models

import (
	"encoding/json"
	"time"
)

// Customer is the customer block of an order submission
type Customer struct {
	FullName    string `json:"fullName"`
	FullAddress string `json:"fullAddress"`
	Email       string `json:"email"`
}

// OrderProduct is one flattened cart line in an order submission
type OrderProduct struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderSubmission is the body posted to the order service. It only lives for
// the duration of a submit call.
type OrderSubmission struct {
	Customer  Customer       `json:"customer"`
	Products  []OrderProduct `json:"products"`
	OrderDate time.Time      `json:"orderDate"`
}

// OrderConfirmation is the best-effort view of a successful order response.
// Fields stay empty when the service returns no body or an unexpected shape.
type OrderConfirmation struct {
	ID      ID     `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is the optional body of a rejected order submission. Message
// is kept raw since services send either a string or a list of strings.
type ErrorResponse struct {
	Message json.RawMessage `json:"message"`
}
