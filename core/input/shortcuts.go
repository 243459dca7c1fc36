// Package input maps keyboard events to player actions.
package input

import (
	"strings"
	"sync"
)

// KeyCombo identifies a key combination by key code plus exact modifier flags.
type KeyCombo struct {
	Code  string
	Alt   bool
	Ctrl  bool
	Shift bool
	Meta  bool
}

// Matches reports whether the combo matches a key event. All fields must be
// equal; a combo without modifiers does not match a modified key press.
func (c KeyCombo) Matches(ev KeyEvent) bool {
	return ev.Code == c.Code &&
		ev.Alt == c.Alt &&
		ev.Ctrl == c.Ctrl &&
		ev.Shift == c.Shift &&
		ev.Meta == c.Meta
}

// String renders the combo for display, e.g. "Ctrl + ArrowRight".
func (c KeyCombo) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if c.Shift {
		parts = append(parts, "Shift")
	}
	if c.Alt {
		parts = append(parts, "Alt")
	}
	if c.Meta {
		parts = append(parts, "Meta")
	}
	if c.Code != "" {
		parts = append(parts, strings.TrimPrefix(c.Code, "Key"))
	}
	return strings.Join(parts, " + ")
}

// KeyEvent is an incoming keydown as reported by the page.
type KeyEvent struct {
	Code  string `json:"code"`
	Alt   bool   `json:"altKey"`
	Ctrl  bool   `json:"ctrlKey"`
	Shift bool   `json:"shiftKey"`
	Meta  bool   `json:"metaKey"`
}

// Shortcut binds a key combination to an action.
type Shortcut struct {
	Combo  KeyCombo
	Action func()
}

// Dispatcher holds the registered shortcuts of one page-scoped listener.
//
// Several shortcuts may bind the same combination. Dispatch deliberately
// invokes every match in registration order; there is no single-winner
// precedence.
type Dispatcher struct {
	mu        sync.Mutex
	shortcuts []Shortcut
}

// NewDispatcher creates a dispatcher with the given initial shortcuts.
func NewDispatcher(shortcuts ...Shortcut) *Dispatcher {
	return &Dispatcher{shortcuts: shortcuts}
}

// Add appends a shortcut.
func (d *Dispatcher) Add(combo KeyCombo, action func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shortcuts = append(d.shortcuts, Shortcut{Combo: combo, Action: action})
}

// Set replaces all registered shortcuts.
func (d *Dispatcher) Set(shortcuts []Shortcut) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shortcuts = shortcuts
}

// Dispatch invokes all shortcuts matching the event, in registration order.
// It returns true if at least one shortcut matched, in which case the
// page should suppress the default browser behavior for the key.
func (d *Dispatcher) Dispatch(ev KeyEvent) bool {
	d.mu.Lock()
	matched := make([]func(), 0, 2)
	for _, s := range d.shortcuts {
		if s.Combo.Matches(ev) {
			matched = append(matched, s.Action)
		}
	}
	d.mu.Unlock()

	for _, fn := range matched {
		fn()
	}
	return len(matched) > 0
}
