// Package decode turns microphonics data files into per-cavity detuning channels.
//
// A data file is a block of '#' comment lines followed by fixed-width records.
// Each record carries up to four 8-byte numeric fields separated by 2-byte gaps,
// one field per cavity of a resonance chassis rack. Channel 1 is always present;
// channels 2-4 may be absent or malformed on any record and are then skipped for
// that record only, so the four output channels can differ in length.
package decode
