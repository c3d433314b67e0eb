package ui

// Package ui contains the Fyne-based desktop viewer. It wires the cavity
// selection tree to the acquisition service, lists running acquisitions, and
// shows the per-channel detuning summary of a loaded data file. All UI strings
// are localized via Localization.
