package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconStop     = "⏹"
	IconPending  = "⏳"
	IconFolder   = "📁"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	PartialMarker       = " (partial)"
)

// Layout sizing
const (
	StatusLabelWidth  float32 = 96
	PercentLabelWidth float32 = 48

	TreeMinWidth   float32 = 220
	TableMinHeight float32 = 160
	TaskListHeight float32 = 180
	ColumnWidth    float32 = 96
	SplitOffset            = 0.3
)

// Debounce durations
const (
	UIUpdateDebounce = 100 * time.Millisecond
)

// Summary number formatting
const (
	ValueFormat = "%.3f"
	PeakFormat  = "%.2f Hz (%.3f)"
)
