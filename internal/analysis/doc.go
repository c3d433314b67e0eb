// Package analysis computes the numeric views of decoded detuning channels:
// summary statistics, histograms, a synthetic time axis, single-sided FFT
// amplitude spectra and Hann-windowed spectrograms.
package analysis
