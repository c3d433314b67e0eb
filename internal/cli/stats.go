package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/analysis"
)

func newStatsCmd(opts *options) *cobra.Command {
	var (
		bins          int
		showHistogram bool
	)

	cmd := &cobra.Command{
		Use:   "stats FILE",
		Short: "Summarize every populated channel of a data file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, spacing, err := opts.loadDataset(args[0])
			if err != nil {
				return err
			}
			if bins <= 0 {
				bins = opts.cfg.Analysis.HistogramBins
			}

			reports, err := analysis.Analyze(ds, analysis.Options{
				Spacing:       spacing,
				HistogramBins: bins,
				Peaks:         opts.cfg.Analysis.Peaks,
			})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "CH\tCAV\tN\tMEAN\tSTD\tRMS\tMIN\tMAX\tP-P\tMODE\tPEAK HZ\t")
			for _, r := range reports {
				peak := "-"
				if len(r.Peaks) > 0 {
					peak = fmt.Sprintf("%.3f", r.Peaks[0].Freq)
				}
				cavity := "-"
				if r.Cavity > 0 {
					cavity = strconv.Itoa(r.Cavity)
				}
				s := r.Stats
				fmt.Fprintf(w, "%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\t\n",
					r.Channel, cavity, s.Count, s.Mean, s.StdDev, s.RMS, s.Min, s.Max, s.PeakToPeak,
					r.Histogram.Mode(), peak)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if showHistogram {
				for _, r := range reports {
					fmt.Fprintf(cmd.OutOrStdout(), "\nchannel %d histogram (%.0f values, %d non-finite skipped)\n",
						r.Channel, r.Histogram.Total(), r.Stats.NonFinite)
					for i, count := range r.Histogram.Counts {
						fmt.Fprintf(cmd.OutOrStdout(), "%12.4f %12.4f %8.0f\n",
							r.Histogram.Edges[i], r.Histogram.Edges[i+1], count)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 0, "histogram bins (default from config)")
	cmd.Flags().BoolVar(&showHistogram, "histogram", false, "print histogram bins per channel")
	return cmd
}
