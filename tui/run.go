package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pelhamlabs/dropkit/engine"
)

// Run starts the widget TUI for the given variant.
// Returns an error for unknown variants.
func Run(eng *engine.Engine, variant string) error {
	if !IsVariantSupported(variant) {
		return fmt.Errorf("unknown variant: %s", variant)
	}

	model := New(eng, Variant(variant))
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// IsVariantSupported returns true if the variant name is selectable.
func IsVariantSupported(variant string) bool {
	for _, v := range SupportedVariants() {
		if v == variant {
			return true
		}
	}
	return false
}
