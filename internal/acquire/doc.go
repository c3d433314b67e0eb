package acquire

// Package acquire runs the resonance chassis data acquisition script for
// selected cryomodule racks. It manages the task lifecycle, one active task
// per rack, progress propagation to the UI, and cleanup of partial files.
