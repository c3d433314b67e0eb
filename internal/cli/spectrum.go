package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/analysis"
)

func newSpectrumCmd(opts *options) *cobra.Command {
	var (
		channel     int
		peaks       int
		full        bool
		spectrogram bool
	)

	cmd := &cobra.Command{
		Use:   "spectrum FILE",
		Short: "Show the detuning spectrum of one channel.",
		Long: "Show the strongest spectral lines of one channel. --full writes the " +
			"whole single-sided spectrum as CSV; --spectrogram writes the dominant " +
			"frequency of every spectrogram frame as CSV.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, spacing, err := opts.loadDataset(args[0])
			if err != nil {
				return err
			}
			values, err := channelValues(ds, channel)
			if err != nil {
				return err
			}

			if spectrogram {
				sg, err := analysis.NewSpectrogram(values, spacing,
					opts.cfg.Analysis.SpectrogramSegment, opts.cfg.Analysis.SpectrogramOverlap)
				if err != nil {
					return err
				}
				return writeSpectrogramCSV(cmd, sg)
			}

			sp, err := analysis.NewSpectrum(values, spacing)
			if err != nil {
				return err
			}
			if full {
				return writeSpectrumCSV(cmd, sp)
			}

			if peaks <= 0 {
				peaks = opts.cfg.Analysis.Peaks
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "channel %d: %d samples, resolution %.4f Hz\n", channel, len(values), sp.Resolution())
			for i, p := range sp.Peaks(peaks) {
				fmt.Fprintf(out, "%2d  %10.4f Hz  %10.4f\n", i+1, p.Freq, p.Amplitude)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&channel, "channel", "c", 1, "1-based channel to analyze")
	cmd.Flags().IntVar(&peaks, "peaks", 0, "number of peaks to list (default from config)")
	cmd.Flags().BoolVar(&full, "full", false, "write the full spectrum as CSV")
	cmd.Flags().BoolVar(&spectrogram, "spectrogram", false, "write per-frame dominant frequency as CSV")
	cmd.MarkFlagsMutuallyExclusive("full", "spectrogram")
	return cmd
}

func writeSpectrumCSV(cmd *cobra.Command, sp analysis.Spectrum) error {
	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write([]string{"freq_hz", "amplitude"}); err != nil {
		return err
	}
	for i := range sp.Freqs {
		if err := w.Write([]string{
			strconv.FormatFloat(sp.Freqs[i], 'g', -1, 64),
			strconv.FormatFloat(sp.Amplitudes[i], 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeSpectrogramCSV writes the strongest non-DC bin of every frame.
func writeSpectrogramCSV(cmd *cobra.Command, sg analysis.Spectrogram) error {
	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write([]string{"time_s", "freq_hz", "power_db"}); err != nil {
		return err
	}
	for i, frame := range sg.Power {
		best := 1
		for j := 2; j < len(frame); j++ {
			if frame[j] > frame[best] {
				best = j
			}
		}
		if err := w.Write([]string{
			strconv.FormatFloat(sg.Times[i], 'g', -1, 64),
			strconv.FormatFloat(sg.Freqs[best], 'g', -1, 64),
			strconv.FormatFloat(frame[best], 'f', 2, 64),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
