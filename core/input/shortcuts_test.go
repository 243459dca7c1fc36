package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComboRequiresExactModifiers(t *testing.T) {
	combo := KeyCombo{Code: "ArrowRight"}

	assert.True(t, combo.Matches(KeyEvent{Code: "ArrowRight"}))
	assert.False(t, combo.Matches(KeyEvent{Code: "ArrowRight", Ctrl: true}))
	assert.False(t, combo.Matches(KeyEvent{Code: "ArrowRight", Shift: true}))
	assert.False(t, combo.Matches(KeyEvent{Code: "ArrowLeft"}))

	ctrlCombo := KeyCombo{Code: "ArrowRight", Ctrl: true}
	assert.True(t, ctrlCombo.Matches(KeyEvent{Code: "ArrowRight", Ctrl: true}))
	assert.False(t, ctrlCombo.Matches(KeyEvent{Code: "ArrowRight"}))
	assert.False(t, ctrlCombo.Matches(KeyEvent{Code: "ArrowRight", Ctrl: true, Alt: true}))
}

func TestDispatchInvokesAllMatchesInRegistrationOrder(t *testing.T) {
	d := NewDispatcher()
	var calls []string
	d.Add(KeyCombo{Code: "Space"}, func() { calls = append(calls, "first") })
	d.Add(KeyCombo{Code: "KeyL"}, func() { calls = append(calls, "other") })
	d.Add(KeyCombo{Code: "Space"}, func() { calls = append(calls, "second") })

	matched := d.Dispatch(KeyEvent{Code: "Space"})
	assert.True(t, matched)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatchReportsWhetherAnythingMatched(t *testing.T) {
	d := NewDispatcher()
	d.Add(KeyCombo{Code: "Space"}, func() {})

	assert.True(t, d.Dispatch(KeyEvent{Code: "Space"}))
	assert.False(t, d.Dispatch(KeyEvent{Code: "KeyX"}))
	assert.False(t, d.Dispatch(KeyEvent{Code: "Space", Meta: true}))
}

func TestSetReplacesShortcuts(t *testing.T) {
	d := NewDispatcher()
	d.Add(KeyCombo{Code: "Space"}, func() { t.Fatal("old shortcut must not fire") })

	fired := false
	d.Set([]Shortcut{{Combo: KeyCombo{Code: "Space"}, Action: func() { fired = true }}})

	d.Dispatch(KeyEvent{Code: "Space"})
	assert.True(t, fired)
}

func TestShortcutRegisteredDuringDispatchDoesNotFireForSameEvent(t *testing.T) {
	d := NewDispatcher()
	fired := false
	d.Add(KeyCombo{Code: "Space"}, func() {
		d.Add(KeyCombo{Code: "Space"}, func() { fired = true })
	})

	d.Dispatch(KeyEvent{Code: "Space"})
	assert.False(t, fired)

	d.Dispatch(KeyEvent{Code: "Space"})
	assert.True(t, fired)
}

func TestComboString(t *testing.T) {
	assert.Equal(t, "Space", KeyCombo{Code: "Space"}.String())
	assert.Equal(t, "Ctrl + ArrowRight", KeyCombo{Code: "ArrowRight", Ctrl: true}.String())
	assert.Equal(t, "Ctrl + Shift + L", KeyCombo{Code: "KeyL", Ctrl: true, Shift: true}.String())
}
