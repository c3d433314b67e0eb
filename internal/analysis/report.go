package analysis

import (
	"errors"

	"github.com/srf-tools/microphonics/internal/model"
)

// Options control Analyze.
type Options struct {
	Spacing       float64 // seconds between samples
	HistogramBins int
	Peaks         int // number of spectral peaks to keep
}

// DefaultOptions matches an undecimated acquisition.
func DefaultOptions() Options {
	return Options{
		Spacing:       SampleSpacing(1),
		HistogramBins: 100,
		Peaks:         5,
	}
}

// ChannelReport is the analysis of one populated channel.
type ChannelReport struct {
	Channel   int
	Cavity    int // 0 if the file does not say
	Stats     Stats
	Histogram Histogram
	Peaks     []Peak
}

// Analyze reports on every populated channel of ds, in channel order.
func Analyze(ds *model.Dataset, opts Options) ([]ChannelReport, error) {
	var reports []ChannelReport
	for _, ch := range ds.Populated() {
		values := ds.Channel(ch)
		report := ChannelReport{Channel: ch, Cavity: ds.Cavity(ch), Stats: Summarize(values)}

		hist, err := NewHistogram(values, opts.HistogramBins)
		if err != nil && !errors.Is(err, ErrEmpty) {
			return nil, err
		}
		report.Histogram = hist

		if report.Stats.Count >= 2 {
			sp, err := NewSpectrum(values, opts.Spacing)
			if err != nil {
				return nil, err
			}
			report.Peaks = sp.Peaks(opts.Peaks)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
