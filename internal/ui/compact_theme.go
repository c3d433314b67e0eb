package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// channelColors tints the per-channel rows of the summary table, channel 1 first.
var channelColors = [...]color.RGBA{
	{R: 25, G: 118, B: 210, A: 255},
	{R: 216, G: 67, B: 21, A: 255},
	{R: 46, G: 125, B: 50, A: 255},
	{R: 123, G: 31, B: 162, A: 255},
}

// compactSizes overrides the default theme sizes; anything missing falls back.
var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:         3,
	theme.SizeNameInnerPadding:    6,
	theme.SizeNameLineSpacing:     2,
	theme.SizeNameScrollBar:       12,
	theme.SizeNameText:            13,
	theme.SizeNameHeadingText:     16,
	theme.SizeNameSubHeadingText:  13,
	theme.SizeNameCaptionText:     10,
	theme.SizeNameInputRadius:     3,
	theme.SizeNameSelectionRadius: 2,
}

// CompactTheme is a dense theme suited to numeric tables
type CompactTheme struct {
	fyne.Theme
}

// NewCompactTheme creates a new compact theme on top of the default one
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{Theme: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.RGBA{R: 46, G: 160, B: 67, A: 255} // completed acquisitions
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNamePrimary:
		return channelColors[0]
	}
	return t.Theme.Color(name, variant)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return t.Theme.Size(name)
}

// ChannelColor returns the tint of a 1-based data channel.
func ChannelColor(channel int) color.Color {
	if channel < 1 || channel > len(channelColors) {
		return theme.Color(theme.ColorNameForeground)
	}
	return channelColors[channel-1]
}
