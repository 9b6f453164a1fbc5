package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/recipes/internal/ui"
)

const (
	// Field limits mirror the reference backend's column sizes.
	nameCharLimit         = 100
	instructionsCharLimit = 1000

	loadingText  = "Loading..."
	noRecipeText = "No recipe yet."
)

func helpLine(bindings []key.Binding) string {
	h := help.New()
	h.Styles.ShortKey = ui.Current().Accent
	h.Styles.ShortDesc = ui.Current().Muted
	h.Styles.ShortSeparator = ui.Current().Muted
	return h.ShortHelpView(bindings)
}

func label(s string) string {
	return ui.Current().Label.Render(s)
}

func errorLine(s string) string {
	return ui.Current().Error.Render(s)
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
