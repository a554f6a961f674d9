package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Dialog body keys.
const (
	MsgProductInvalid  = "dialogProductEmptyMessage"
	MsgCartEmptyOnNext = "dialogCartEmptyMessage"
	MsgFillAllFields   = "alertFillAllFields"
	MsgInvalidEmail    = "alertValidEmail"
	MsgCartEmpty       = "alertCartEmpty"
	MsgOrderError      = "alertOrderError"
	MsgOrderPrepared   = "alertOrderPrepared"
	MsgCategoriesError = "alertCategoriesError"
)

// Storefront is the dispatch surface for both screens. Each method applies at
// most one state transition.
type Storefront struct {
	store       *store.Store
	loader      *CatalogLoader
	submitter   *OrderSubmitter
	maxQuantity int
	logger      *zap.Logger
}

// NewStorefront wires the flows to a store. maxQuantity is the largest
// quantity a single add-to-cart may carry.
func NewStorefront(st *store.Store, loader *CatalogLoader, submitter *OrderSubmitter, maxQuantity int) *Storefront {
	return &Storefront{
		store:       st,
		loader:      loader,
		submitter:   submitter,
		maxQuantity: maxQuantity,
		logger:      util.GetLogger(),
	}
}

func (s *Storefront) Snapshot() store.Snapshot {
	return s.store.Snapshot()
}

func (s *Storefront) MaxProductQuantity() int {
	return s.maxQuantity
}

// LoadCatalog runs the once-per-session category fetch.
func (s *Storefront) LoadCatalog(ctx context.Context) error {
	return s.loader.Load(ctx)
}

// SelectCategory picks a loaded category for the next add-to-cart. An empty
// name clears the selection.
func (s *Storefront) SelectCategory(name string) error {
	var err error
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		if name != "" && !st.HasCategory(name) {
			err = &ValidationError{Kind: InvalidSelection, Reason: "unknown category"}
			return
		}
		st.Draft.SelectedCategory = name
	})
	return err
}

func (s *Storefront) SetProductName(name string) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Draft.ProductName = name
	})
}

// SetProductQuantity stores the quantity input. Zero, the value of an empty
// input, reads as 1.
func (s *Storefront) SetProductQuantity(quantity int) {
	if quantity == 0 {
		quantity = 1
	}
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Draft.ProductQuantity = quantity
	})
}

// ValidateDraft checks the add-to-cart inputs against maxQuantity.
func ValidateDraft(d models.Draft, maxQuantity int) error {
	switch {
	case d.SelectedCategory == "":
		return &ValidationError{Kind: InvalidProduct, Reason: "no_category"}
	case strings.TrimSpace(d.ProductName) == "":
		return &ValidationError{Kind: InvalidProduct, Reason: "empty_name"}
	case d.ProductQuantity < 1 || d.ProductQuantity > maxQuantity:
		return &ValidationError{Kind: InvalidProduct, Reason: "quantity_out_of_range"}
	}
	return nil
}

// AddToCart adds the draft product to the cart and resets the draft name and
// quantity. Invalid drafts raise a warning and change nothing else.
func (s *Storefront) AddToCart() error {
	var err error
	s.store.Update(func(st *store.State, d *notify.Dialog) {
		if err = ValidateDraft(st.Draft, s.maxQuantity); err != nil {
			util.CartAddRejectedTotal.WithLabelValues(err.(*ValidationError).Reason).Inc()
			d.Show(notify.General(MsgProductInvalid, models.SeverityWarning))
			return
		}
		name := strings.TrimSpace(st.Draft.ProductName)
		st.Cart = st.Cart.Add(st.Draft.SelectedCategory, name, st.Draft.ProductQuantity)
		st.Draft.ProductName = ""
		st.Draft.ProductQuantity = 1
		util.CartItemsAddedTotal.Inc()
	})
	return err
}

func (s *Storefront) UpdateCartItemQuantity(category, name string, quantity int) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Cart = st.Cart.UpdateQuantity(category, name, quantity)
	})
}

func (s *Storefront) RemoveCartItem(category, name string) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Cart = st.Cart.Remove(category, name)
	})
}

func (s *Storefront) ClearCart() {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Cart = st.Cart.Clear()
	})
}

// Continue moves to the order screen when the cart has items.
func (s *Storefront) Continue() error {
	var err error
	s.store.Update(func(st *store.State, d *notify.Dialog) {
		if st.Cart.IsEmpty() {
			err = &ValidationError{Kind: EmptyCart}
			d.Show(notify.General(MsgCartEmptyOnNext, models.SeverityWarning))
			return
		}
		st.Screen = models.ScreenOrder
	})
	return err
}

func (s *Storefront) BackToShopping() {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Screen = models.ScreenCatalog
	})
}

func (s *Storefront) SetFullName(name string) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Form.SetFullName(name)
	})
}

func (s *Storefront) SetFullAddress(address string) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Form.SetFullAddress(address)
	})
}

func (s *Storefront) SetEmail(email string) {
	s.store.Update(func(st *store.State, _ *notify.Dialog) {
		st.Form.SetEmail(email)
	})
}

// SubmitOrder sends the current form and cart. On success the form is reset,
// the sent items are taken out of the cart and the catalog screen is shown.
// Items added while the order was in flight stay in the cart. On any failure
// both are kept and the matching message is shown.
func (s *Storefront) SubmitOrder(ctx context.Context) (*models.OrderConfirmation, error) {
	token, begun := s.store.Begin()

	confirmation, err := s.submitter.Submit(ctx, begun.Form, begun.Cart)

	applied := s.store.Apply(token, "submit_order", func(st *store.State, d *notify.Dialog) {
		if err != nil {
			d.Show(messageFor(err))
			return
		}
		st.Form.Reset()
		st.Cart = st.Cart.Subtract(begun.Cart)
		st.Screen = models.ScreenCatalog
		d.Show(notify.General(MsgOrderPrepared, models.SeverityInfo))
	})
	if !applied {
		return nil, ErrSessionEnded
	}
	return confirmation, err
}

func (s *Storefront) DismissMessage() {
	s.store.Update(func(_ *store.State, d *notify.Dialog) {
		d.Dismiss()
	})
}

// Close tears the session down. Responses still in flight are dropped.
func (s *Storefront) Close() {
	s.store.Close()
}

// Reset starts a new session and loads the catalog for it.
func (s *Storefront) Reset(ctx context.Context) error {
	s.store.Reset()
	s.logger.Info("Session reset")
	return s.loader.Load(ctx)
}

// messageFor maps an order failure to the dialog the user sees.
func messageFor(err error) notify.Message {
	var verr *ValidationError
	if errors.As(err, &verr) {
		switch verr.Kind {
		case MissingFields:
			return notify.General(MsgFillAllFields, models.SeverityWarning)
		case InvalidEmail:
			return notify.General(MsgInvalidEmail, models.SeverityWarning)
		case EmptyCart:
			return notify.General(MsgCartEmpty, models.SeverityWarning)
		}
	}
	return notify.General(MsgOrderError, models.SeverityError)
}
