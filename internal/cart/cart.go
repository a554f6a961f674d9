// Package cart holds the shopping cart state transitions.
//
// A Cart maps category names to ordered line items. Every operation returns a
// new Cart and leaves its receiver untouched, so a snapshot handed to a reader
// never changes underneath it. Two invariants hold for every reachable value:
// a category key exists only while it has at least one item, and item names
// are unique within a category.
package cart

import (
	"bytes"
	"encoding/json"

	"storefront/internal/models"
)

type Cart struct {
	order []string
	items map[string][]models.LineItem
}

// Line is one flattened cart entry.
type Line struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// New returns an empty cart.
func New() Cart {
	return Cart{}
}

// Add puts quantity units of name into category. An existing item with the
// same name has its quantity increased; otherwise the item is appended.
// Callers validate category, name and quantity before calling.
func (c Cart) Add(category, name string, quantity int) Cart {
	next := c.clone()
	list, ok := next.items[category]
	if !ok {
		next.order = append(next.order, category)
	}
	for i := range list {
		if list[i].Name == name {
			list[i].Quantity += quantity
			next.items[category] = list
			return next
		}
	}
	next.items[category] = append(list, models.LineItem{Name: name, Quantity: quantity})
	return next
}

// UpdateQuantity overwrites the quantity of an item. A quantity of zero or
// less removes the item. Missing categories or items leave the cart as is.
func (c Cart) UpdateQuantity(category, name string, newQuantity int) Cart {
	idx := c.indexOf(category, name)
	if idx < 0 {
		return c
	}
	if newQuantity <= 0 {
		return c.Remove(category, name)
	}
	next := c.clone()
	next.items[category][idx].Quantity = newQuantity
	return next
}

// Remove drops the named item, and its category once that category is empty.
func (c Cart) Remove(category, name string) Cart {
	idx := c.indexOf(category, name)
	if idx < 0 {
		return c
	}
	next := c.clone()
	list := next.items[category]
	list = append(list[:idx], list[idx+1:]...)
	if len(list) == 0 {
		delete(next.items, category)
		next.order = removeKey(next.order, category)
		return next
	}
	next.items[category] = list
	return next
}

// Subtract takes the quantities of sent away from the cart. Items that drop
// to zero are removed; items missing from the cart are skipped.
func (c Cart) Subtract(sent Cart) Cart {
	next := c
	for _, line := range sent.Lines() {
		have := next.Quantity(line.Category, line.Name)
		if have == 0 {
			continue
		}
		next = next.UpdateQuantity(line.Category, line.Name, have-line.Quantity)
	}
	return next
}

// Clear returns an empty cart.
func (c Cart) Clear() Cart {
	return New()
}

func (c Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// Len returns the number of categories.
func (c Cart) Len() int {
	return len(c.order)
}

// Categories returns category names in insertion order.
func (c Cart) Categories() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Items returns a copy of the items held under category.
func (c Cart) Items(category string) []models.LineItem {
	list := c.items[category]
	if len(list) == 0 {
		return nil
	}
	out := make([]models.LineItem, len(list))
	copy(out, list)
	return out
}

// Quantity returns the quantity of an item, or 0 when absent.
func (c Cart) Quantity(category, name string) int {
	if idx := c.indexOf(category, name); idx >= 0 {
		return c.items[category][idx].Quantity
	}
	return 0
}

// Lines flattens the cart in category order, then item order.
func (c Cart) Lines() []Line {
	var lines []Line
	for _, category := range c.order {
		for _, item := range c.items[category] {
			lines = append(lines, Line{Category: category, Name: item.Name, Quantity: item.Quantity})
		}
	}
	return lines
}

// MarshalJSON encodes the cart as an object keyed by category, in insertion order.
func (c Cart) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, category := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(category)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.items[category])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c Cart) indexOf(category, name string) int {
	for i, item := range c.items[category] {
		if item.Name == name {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	next := Cart{
		order: make([]string, len(c.order)),
		items: make(map[string][]models.LineItem, len(c.items)+1),
	}
	copy(next.order, c.order)
	for category, list := range c.items {
		cp := make([]models.LineItem, len(list))
		copy(cp, list)
		next.items[category] = cp
	}
	return next
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}
