// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported colors of the active palette.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
	ColorHighlight  color.Color

	// ColorRegion outlines word regions on the image.
	ColorRegion color.Color
	// ColorRegionFill tints the active region, blended over the image.
	ColorRegionFill color.Color
	// ColorCanvas fills the viewer when no image is available.
	ColorCanvas color.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	CommandStyle       lipgloss.Style
	DividerStyle       lipgloss.Style
	PassStyle          lipgloss.Style
	WarnStyle          lipgloss.Style
	FailStyle          lipgloss.Style

	// Panels.
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style

	// Editor tokens.
	TokenStyle       lipgloss.Style
	TokenActiveStyle lipgloss.Style
	TokenCursorStyle lipgloss.Style
	ReadOnlyStyle    lipgloss.Style

	// Status bar.
	StatusBarStyle    lipgloss.Style
	StatusKeyStyle    lipgloss.Style
	StatusEditedStyle lipgloss.Style
	StatusMutedStyle  lipgloss.Style
	HelpStyle         lipgloss.Style

	// Gallery.
	GalleryItemStyle     lipgloss.Style
	GallerySelectedStyle lipgloss.Style

	// Modal / prompt.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style

	// Toasts.
	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error
	ColorHighlight = p.Highlight

	ColorRegion = p.Secondary
	ColorRegionFill = Blend(p.Background, p.Highlight, 0.6)
	ColorCanvas = p.Surface

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	CommandStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PassStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarnStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	FailStyle = lipgloss.NewStyle().Foreground(ColorError)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)
	PanelFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PanelTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	TokenStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	TokenActiveStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorHighlight).
		Bold(true)
	TokenCursorStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Underline(true)
	ReadOnlyStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Padding(0, 1)
	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	StatusEditedStyle = lipgloss.NewStyle().
		Foreground(ColorWarning).
		Bold(true)
	StatusMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	GalleryItemStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		PaddingLeft(2)
	GallerySelectedStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorPrimary).
		Foreground(ColorPrimary).
		PaddingLeft(1)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.
		BorderForeground(ColorPrimary).
		Foreground(ColorForeground)
	ToastWarningStyle = toast.
		BorderForeground(ColorWarning).
		Foreground(ColorWarning)
	ToastErrorStyle = toast.
		BorderForeground(ColorError).
		Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
