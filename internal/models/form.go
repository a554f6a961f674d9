package models

// OrderForm holds the customer fields of the order confirmation screen.
// Fields change independently; they are only ever cleared together.
type OrderForm struct {
	FullName    string `json:"fullName"`
	FullAddress string `json:"fullAddress"`
	Email       string `json:"email"`
}

func (f *OrderForm) SetFullName(name string) {
	f.FullName = name
}

func (f *OrderForm) SetFullAddress(address string) {
	f.FullAddress = address
}

func (f *OrderForm) SetEmail(email string) {
	f.Email = email
}

// Reset clears all three fields at once.
func (f *OrderForm) Reset() {
	*f = OrderForm{}
}

// IsZero reports whether every field is empty.
func (f OrderForm) IsZero() bool {
	return f == OrderForm{}
}
