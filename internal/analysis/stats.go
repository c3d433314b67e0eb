package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BaseSampleRate is the resonance chassis waveform rate before decimation, in Hz.
const BaseSampleRate = 2000.0

// ErrEmpty is returned when a computation needs at least one value.
var ErrEmpty = errors.New("no samples")

// SampleSpacing returns the time between samples for a chassis decimation
// (wave_samp_per) setting. Values below 1 are treated as 1.
func SampleSpacing(decimation int) float64 {
	if decimation < 1 {
		decimation = 1
	}
	return float64(decimation) / BaseSampleRate
}

// TimeAxis returns n sample times starting at zero, spacing seconds apart.
func TimeAxis(n int, spacing float64) []float64 {
	if n <= 0 {
		return nil
	}
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) * spacing
	}
	return t
}

// Stats summarizes one channel, in Hz of detuning.
type Stats struct {
	Count      int
	Mean       float64
	StdDev     float64
	RMS        float64
	Min        float64
	Max        float64
	PeakToPeak float64
	NonFinite  int // NaN and ±Inf samples left out of every figure
}

// finite returns the finite values and how many were dropped.
func finite(values []float64) ([]float64, int) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out, len(values) - len(out)
}

// Summarize computes Stats for the finite values. An input with no finite
// value gives a zero Stats apart from NonFinite.
func Summarize(values []float64) Stats {
	values, dropped := finite(values)
	if len(values) == 0 {
		return Stats{NonFinite: dropped}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	lo, hi := floats.Min(values), floats.Max(values)
	return Stats{
		Count:      len(values),
		Mean:       mean,
		StdDev:     std,
		RMS:        math.Sqrt(floats.Dot(values, values) / float64(len(values))),
		Min:        lo,
		Max:        hi,
		PeakToPeak: hi - lo,
		NonFinite:  dropped,
	}
}
