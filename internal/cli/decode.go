package cli

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/analysis"
	"github.com/srf-tools/microphonics/internal/model"
)

func newDecodeCmd(opts *options) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a data file into its four detuning channels.",
		Long: "Decode a data file into its four detuning channels. Without --csv " +
			"only the header and channel lengths are printed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, spacing, err := opts.loadDataset(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !asCSV {
				for _, line := range ds.Header {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "records: %d\n", ds.Records)
				fmt.Fprintf(out, "sample spacing: %g s\n", spacing)
				for ch := 1; ch <= model.NumChannels; ch++ {
					fmt.Fprintf(out, "channel %d: %d samples\n", ch, len(ds.Channel(ch)))
				}
				return nil
			}

			return writeChannelsCSV(cmd, ds, spacing)
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write index, time and channel values as CSV")
	return cmd
}

// writeChannelsCSV writes one row per sample index. Channels shorter than the
// longest one leave their cells empty.
func writeChannelsCSV(cmd *cobra.Command, ds *model.Dataset, spacing float64) error {
	w := csv.NewWriter(cmd.OutOrStdout())

	header := []string{"index", "time_s"}
	longest := 0
	for ch := 1; ch <= model.NumChannels; ch++ {
		header = append(header, "ch"+strconv.Itoa(ch))
		longest = max(longest, len(ds.Channel(ch)))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	times := analysis.TimeAxis(longest, spacing)
	for i := 0; i < longest; i++ {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(times[i], 'g', -1, 64)}
		for ch := 1; ch <= model.NumChannels; ch++ {
			values := ds.Channel(ch)
			if i < len(values) {
				row = append(row, strconv.FormatFloat(values[i], 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
