package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is a single-sided amplitude spectrum of a detuning channel.
type Spectrum struct {
	Freqs      []float64 // Hz
	Amplitudes []float64 // Hz of detuning
}

// Peak is one spectral line.
type Peak struct {
	Freq      float64
	Amplitude float64
}

// NewSpectrum computes the amplitude spectrum of values sampled spacing
// seconds apart. Non-finite samples are dropped and the mean is removed first
// so the DC bin only carries drift.
func NewSpectrum(values []float64, spacing float64) (Spectrum, error) {
	values, _ = finite(values)
	if len(values) < 2 {
		return Spectrum{}, ErrEmpty
	}
	if spacing <= 0 {
		return Spectrum{}, fmt.Errorf("invalid sample spacing %g", spacing)
	}

	n := len(values)
	seq := values
	floats.AddConst(-stat.Mean(values, nil), seq)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	rate := 1 / spacing
	sp := Spectrum{
		Freqs:      make([]float64, len(coeffs)),
		Amplitudes: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		sp.Freqs[i] = fft.Freq(i) * rate
		amp := cmplx.Abs(c) / float64(n)
		// fold the negative frequencies in, except DC and Nyquist
		if i != 0 && !(n%2 == 0 && i == n/2) {
			amp *= 2
		}
		sp.Amplitudes[i] = amp
	}
	return sp, nil
}

// Resolution returns the bin width in Hz.
func (s Spectrum) Resolution() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	return s.Freqs[1] - s.Freqs[0]
}

// Peaks returns up to k local maxima ordered by amplitude, strongest first.
// The DC bin is never reported.
func (s Spectrum) Peaks(k int) []Peak {
	var peaks []Peak
	for i := 1; i < len(s.Amplitudes); i++ {
		a := s.Amplitudes[i]
		if a <= s.Amplitudes[i-1] {
			continue
		}
		if i+1 < len(s.Amplitudes) && a < s.Amplitudes[i+1] {
			continue
		}
		peaks = append(peaks, Peak{Freq: s.Freqs[i], Amplitude: a})
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Amplitude > peaks[j].Amplitude
	})
	if k >= 0 && len(peaks) > k {
		peaks = peaks[:k]
	}
	return peaks
}

// Spectrogram is a time-frequency power map. Power[i][j] is the power of
// frame i at frequency Freqs[j], in dB.
type Spectrogram struct {
	Times []float64 // frame centers, seconds
	Freqs []float64 // Hz
	Power [][]float64
}

// minPower floors the dB conversion for empty bins.
const minPower = 1e-20

// NewSpectrogram splits values into Hann-windowed frames of segment samples
// that overlap by overlap samples and computes the power spectrum of each.
// A series shorter than segment is analyzed as one frame and overlap is ignored.
// Non-finite samples are dropped.
func NewSpectrogram(values []float64, spacing float64, segment, overlap int) (Spectrogram, error) {
	values, _ = finite(values)
	if len(values) < 2 {
		return Spectrogram{}, ErrEmpty
	}
	if spacing <= 0 {
		return Spectrogram{}, fmt.Errorf("invalid sample spacing %g", spacing)
	}
	if segment < 2 {
		return Spectrogram{}, fmt.Errorf("invalid segment length %d", segment)
	}
	if segment > len(values) {
		segment = len(values)
		overlap = 0
	}
	if overlap < 0 || overlap >= segment {
		return Spectrogram{}, fmt.Errorf("overlap %d must be in [0, %d)", overlap, segment)
	}

	win := make([]float64, segment)
	for i := range win {
		win[i] = 1
	}
	win = window.Hann(win)
	scale := floats.Dot(win, win) / spacing

	fft := fourier.NewFFT(segment)
	rate := 1 / spacing
	sg := Spectrogram{Freqs: make([]float64, segment/2+1)}
	for i := range sg.Freqs {
		sg.Freqs[i] = fft.Freq(i) * rate
	}

	step := segment - overlap
	frame := make([]float64, segment)
	coeffs := make([]complex128, segment/2+1)
	for start := 0; start+segment <= len(values); start += step {
		chunk := values[start : start+segment]
		mean := stat.Mean(chunk, nil)
		for i, v := range chunk {
			frame[i] = (v - mean) * win[i]
		}
		fft.Coefficients(coeffs, frame)

		row := make([]float64, len(coeffs))
		for i, c := range coeffs {
			p := real(c)*real(c) + imag(c)*imag(c)
			p /= scale
			if i != 0 && !(segment%2 == 0 && i == segment/2) {
				p *= 2
			}
			row[i] = 10 * math.Log10(math.Max(p, minPower))
		}
		sg.Power = append(sg.Power, row)
		sg.Times = append(sg.Times, (float64(start)+float64(segment)/2)*spacing)
	}
	return sg, nil
}
