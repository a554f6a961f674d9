// Package notify implements the single-slot message dialog.
package notify

import (
	"sync"

	"storefront/internal/models"
)

// Message keys shared by every dialog the storefront raises.
const (
	GeneralHeaderKey = "messageDialogGeneralHeader"
	CloseButtonKey   = "messageDialogCloseButton"
)

// Message is the content of one dialog. HeaderKey, BodyKey and CloseLabelKey
// are localization keys; an unknown key renders as itself.
type Message struct {
	HeaderKey     string          `json:"headerKey"`
	BodyKey       string          `json:"bodyKey"`
	CloseLabelKey string          `json:"closeLabelKey"`
	Severity      models.Severity `json:"severity"`
}

// General builds a message with the standard header and close button.
func General(bodyKey string, severity models.Severity) Message {
	return Message{
		HeaderKey:     GeneralHeaderKey,
		BodyKey:       bodyKey,
		CloseLabelKey: CloseButtonKey,
		Severity:      severity,
	}
}

// Dialog holds at most one visible message. Showing a message replaces the
// current one; nothing is queued.
type Dialog struct {
	mu      sync.RWMutex
	visible bool
	current Message
}

func NewDialog() *Dialog {
	return &Dialog{}
}

// Show makes msg the visible message, discarding whatever was shown before.
func (d *Dialog) Show(msg Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = msg
	d.visible = true
}

// Dismiss hides the dialog. Dismissing a hidden dialog does nothing.
func (d *Dialog) Dismiss() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.visible {
		return
	}
	d.visible = false
	d.current = Message{}
}

// Current returns the visible message, if any.
func (d *Dialog) Current() (Message, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.visible
}

func (d *Dialog) Visible() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.visible
}
