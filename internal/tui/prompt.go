package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// MockPrompts replaces interactive prompts in tests.
type MockPrompts struct {
	ConfirmFunc func(title, description string) (bool, error)
}

var mock *MockPrompts

func SetMock(m *MockPrompts) { mock = m }

func ClearMock() { mock = nil }

func Confirm(title, description string) (bool, error) {
	if mock != nil && mock.ConfirmFunc != nil {
		return mock.ConfirmFunc(title, description)
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Write").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	return ok, nil
}
