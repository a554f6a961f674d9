package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier issued by a remote service. Services may send it as a
// JSON number or a JSON string; both decode to the same textual form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("id is null")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Category represents a product category in the catalog
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// LineItem represents a product line inside a cart category
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Draft holds the Add-to-Cart inputs of the catalog screen
type Draft struct {
	SelectedCategory string `json:"selectedCategory"`
	ProductName      string `json:"productName"`
	ProductQuantity  int    `json:"productQuantity"`
}

// NewDraft returns the draft as it looks on a fresh catalog screen.
func NewDraft() Draft {
	return Draft{ProductQuantity: 1}
}

// Screen identifies which of the two views is active
type Screen string

const (
	ScreenCatalog Screen = "catalog"
	ScreenOrder   Screen = "order"
)

// Severity controls how a dialog message is presented
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
