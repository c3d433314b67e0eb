package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/srf-tools/microphonics/internal/model"
)

func sine(n int, spacing, freq, amp, offset float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = offset + amp*math.Sin(2*math.Pi*freq*float64(i)*spacing)
	}
	return out
}

func TestSampleSpacing(t *testing.T) {
	assert.Equal(t, 0.0005, SampleSpacing(1))
	assert.Equal(t, 0.001, SampleSpacing(2))
	assert.Equal(t, 0.0005, SampleSpacing(0))
}

func TestTimeAxis(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1, 1.5}, TimeAxis(4, 0.5))
	assert.Nil(t, TimeAxis(0, 0.5))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, 2, 3, 4})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.StdDev, 1e-12)
	assert.InDelta(t, math.Sqrt(7.5), s.RMS, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, 3.0, s.PeakToPeak)

	assert.Equal(t, Stats{}, Summarize(nil))
	assert.Equal(t, Stats{NonFinite: 2}, Summarize([]float64{math.NaN(), math.Inf(-1)}))
	assert.Equal(t, 0.0, Summarize([]float64{7}).StdDev)
}

func TestNewHistogram(t *testing.T) {
	h, err := NewHistogram([]float64{3, 1, 2, 3, 2, 3}, 3)
	require.NoError(t, err)

	assert.Len(t, h.Edges, 4)
	assert.Equal(t, []float64{1, 2, 3}, h.Counts)
	assert.Equal(t, 6.0, h.Total())
	assert.InDelta(t, (7.0/3.0+3.0)/2, h.Mode(), 1e-9)
}

func TestNewHistogram_EdgeCases(t *testing.T) {
	h, err := NewHistogram([]float64{5, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, h.Counts)
	assert.InDelta(t, 4.5, h.Edges[0], 1e-12)

	h, err = NewHistogram([]float64{1, math.NaN(), 2, math.Inf(1)}, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, h.Total())

	_, err = NewHistogram(nil, 10)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewHistogram([]float64{1}, 0)
	assert.Error(t, err)
}

func TestNewSpectrum(t *testing.T) {
	spacing := SampleSpacing(1)
	values := sine(2000, spacing, 10, 3, 50)

	sp, err := NewSpectrum(values, spacing)
	require.NoError(t, err)

	assert.Len(t, sp.Freqs, 1001)
	assert.InDelta(t, 1.0, sp.Resolution(), 1e-12)
	assert.InDelta(t, 1000.0, sp.Freqs[len(sp.Freqs)-1], 1e-9)
	assert.InDelta(t, 0.0, sp.Amplitudes[0], 1e-9, "mean must be removed")
	assert.InDelta(t, 3.0, sp.Amplitudes[10], 1e-9)

	peaks := sp.Peaks(1)
	require.Len(t, peaks, 1)
	assert.InDelta(t, 10.0, peaks[0].Freq, 1e-9)
	assert.InDelta(t, 3.0, peaks[0].Amplitude, 1e-9)
}

func TestNewSpectrum_TwoTones(t *testing.T) {
	spacing := SampleSpacing(2)
	values := sine(1000, spacing, 20, 1, 0)
	floats.Add(values, sine(1000, spacing, 60, 4, 0))

	sp, err := NewSpectrum(values, spacing)
	require.NoError(t, err)

	peaks := sp.Peaks(2)
	require.Len(t, peaks, 2)
	assert.InDelta(t, 60.0, peaks[0].Freq, 1e-9)
	assert.InDelta(t, 20.0, peaks[1].Freq, 1e-9)
}

func TestSummarize_SkipsNonFinite(t *testing.T) {
	s := Summarize([]float64{1, math.NaN(), 3, math.Inf(1)})

	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 2, s.NonFinite)
	assert.InDelta(t, 2.0, s.Mean, 1e-12)
	assert.Equal(t, 2.0, s.PeakToPeak)
}

func TestNewSpectrum_SkipsNonFinite(t *testing.T) {
	spacing := SampleSpacing(1)
	values := sine(2000, spacing, 10, 3, 50)
	values = append(values, math.NaN(), math.Inf(1))

	sp, err := NewSpectrum(values, spacing)
	require.NoError(t, err)
	assert.Len(t, sp.Freqs, 1001)

	peaks := sp.Peaks(1)
	require.Len(t, peaks, 1)
	assert.InDelta(t, 10.0, peaks[0].Freq, 1e-9)
	assert.InDelta(t, 50.0, values[0], 1e-12)

	_, err = NewSpectrum([]float64{1, math.NaN()}, spacing)
	assert.ErrorIs(t, err, ErrEmpty)

	sg, err := NewSpectrogram(values, spacing, 256, 128)
	require.NoError(t, err)
	for _, row := range sg.Power {
		assert.False(t, floats.HasNaN(row))
	}
}

func TestNewSpectrum_Errors(t *testing.T) {
	_, err := NewSpectrum([]float64{1}, 0.001)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = NewSpectrum([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestNewSpectrogram(t *testing.T) {
	spacing := SampleSpacing(1)
	values := sine(1000, spacing, 250, 1, 0)

	sg, err := NewSpectrogram(values, spacing, 256, 128)
	require.NoError(t, err)

	assert.Len(t, sg.Freqs, 129)
	require.Len(t, sg.Power, 6)
	require.Len(t, sg.Times, 6)
	assert.InDelta(t, 128*spacing, sg.Times[0], 1e-12)
	for i, row := range sg.Power {
		assert.Equal(t, 32, floats.MaxIdx(row), "frame %d", i)
	}
}

func TestNewSpectrogram_ShortSeries(t *testing.T) {
	sg, err := NewSpectrogram([]float64{1, 2, 3, 4}, 0.001, 256, 0)
	require.NoError(t, err)
	assert.Len(t, sg.Power, 1)
	assert.Len(t, sg.Freqs, 3)

	// the configured overlap exceeds the shortened frame
	sg, err = NewSpectrogram([]float64{1, 2, 3, 4}, 0.001, 1024, 512)
	require.NoError(t, err)
	assert.Len(t, sg.Power, 1)

	_, err = NewSpectrogram([]float64{1, 2, 3, 4}, 0.001, 4, 4)
	assert.Error(t, err)
	_, err = NewSpectrogram([]float64{1, 2, 3, 4}, 0.001, 1, 0)
	assert.Error(t, err)
}

func TestAnalyze(t *testing.T) {
	spacing := SampleSpacing(1)
	ds := &model.Dataset{}
	ds.Channels[0] = sine(2000, spacing, 30, 2, 0)
	ds.Channels[2] = []float64{4}
	ds.Cavities = [model.NumChannels]int{5, 0, 7, 0}

	opts := DefaultOptions()
	opts.HistogramBins = 20
	reports, err := Analyze(ds, opts)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, 1, reports[0].Channel)
	assert.Equal(t, 5, reports[0].Cavity)
	assert.Equal(t, 2000, reports[0].Stats.Count)
	assert.Len(t, reports[0].Histogram.Counts, 20)
	require.NotEmpty(t, reports[0].Peaks)
	assert.InDelta(t, 30.0, reports[0].Peaks[0].Freq, 1e-9)

	assert.Equal(t, 3, reports[1].Channel)
	assert.Equal(t, 7, reports[1].Cavity)
	assert.Empty(t, reports[1].Peaks)
}
