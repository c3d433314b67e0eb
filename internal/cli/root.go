// Package cli provides the microphonics command-line interface.
package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/analysis"
	"github.com/srf-tools/microphonics/internal/config"
	"github.com/srf-tools/microphonics/internal/decode"
	"github.com/srf-tools/microphonics/internal/model"
)

// options holds the persistent flags and the configuration they resolve to.
type options struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "microphonics",
		Short: "Acquire and inspect SRF cavity detuning data.",
		Long: `microphonics launches resonance chassis acquisitions for selected ` +
			`cryomodule cavities and decodes the resulting fixed-width data ` +
			`files into per-channel statistics and spectra.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Logging.Verbose = opts.verbose
			}
			opts.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "echo acquisition script output")

	rootCmd.AddCommand(
		newLayoutCmd(opts),
		newDecodeCmd(opts),
		newStatsCmd(opts),
		newSpectrumCmd(opts),
		newAcquireCmd(opts),
		newConfigCmd(opts),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log.SetFlags(log.LstdFlags)
	log.SetOutput(os.Stderr)

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDataset decodes path and returns it with the sample spacing recorded in
// its header, or the configured decimation when the header has none.
func (o *options) loadDataset(path string) (*model.Dataset, float64, error) {
	ds, err := decode.Load(path)
	if err != nil {
		return nil, 0, err
	}
	decimation := o.cfg.Acquisition.Decimation
	if d, ok := decode.Header(ds.Header).Decimation(); ok {
		decimation = d
	}
	return ds, analysis.SampleSpacing(decimation), nil
}

// channelValues returns a populated 1-based channel of ds.
func channelValues(ds *model.Dataset, channel int) ([]float64, error) {
	if channel < 1 || channel > model.NumChannels {
		return nil, fmt.Errorf("channel must be in 1-%d, got %d", model.NumChannels, channel)
	}
	values := ds.Channel(channel)
	if len(values) == 0 {
		return nil, fmt.Errorf("channel %d of %s holds no samples", channel, ds.Source)
	}
	return values, nil
}
