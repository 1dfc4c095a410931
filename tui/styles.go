// Package tui renders the upload widget variants with Bubble Tea.
//
// Variant rules:
//   - All variants render the same engine snapshot; no variant-exclusive state
//   - The engine is injected explicitly, never pulled from ambient scope
//   - Theme colors come from the resolved configuration
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pelhamlabs/dropkit/config"
	"github.com/pelhamlabs/dropkit/types"
)

// Theme holds the resolved lipgloss styles for one widget instance.
type Theme struct {
	Title        lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Success      lipgloss.Style
	Warning      lipgloss.Style
	Error        lipgloss.Style
	Muted        lipgloss.Style
	Box          lipgloss.Style
	Dropzone     lipgloss.Style
	Selected     lipgloss.Style
	Help         lipgloss.Style
	Announcement lipgloss.Style
}

// NewTheme resolves config colors into concrete styles.
func NewTheme(cfg config.ThemeConfig) Theme {
	primary := lipgloss.Color(cfg.Primary)
	success := lipgloss.Color(cfg.Success)
	warning := lipgloss.Color(cfg.Warning)
	errColor := lipgloss.Color(cfg.Error)
	muted := lipgloss.Color(cfg.Muted)
	highlight := lipgloss.Color(cfg.Highlight)

	return Theme{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(muted).
			Width(14),

		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),

		Success: lipgloss.NewStyle().
			Foreground(success),

		Warning: lipgloss.NewStyle().
			Foreground(warning),

		Error: lipgloss.NewStyle().
			Foreground(errColor),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(1, 2),

		Dropzone: lipgloss.NewStyle().
			Border(lipgloss.Border{
				Top: "╌", Bottom: "╌", Left: "┆", Right: "┆",
				TopLeft: "┌", TopRight: "┐", BottomLeft: "└", BottomRight: "┘",
			}).
			BorderForeground(highlight).
			Padding(2, 6).
			Align(lipgloss.Center),

		Selected: lipgloss.NewStyle().
			Foreground(highlight).
			Bold(true),

		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),

		Announcement: lipgloss.NewStyle().
			Foreground(warning).
			Italic(true),
	}
}

// StatusStyle returns the style for a file lifecycle status.
func (t Theme) StatusStyle(status types.UploadStatus) lipgloss.Style {
	switch status {
	case types.StatusSuccess:
		return t.Success
	case types.StatusUploading:
		return t.Warning
	case types.StatusError:
		return t.Error
	default:
		return t.Value
	}
}

// statusIcon is the single-cell marker rendered per file.
func statusIcon(status types.UploadStatus) string {
	switch status {
	case types.StatusSuccess:
		return "✓"
	case types.StatusUploading:
		return "↑"
	case types.StatusError:
		return "✗"
	default:
		return "•"
	}
}
