package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/acquire"
	"github.com/srf-tools/microphonics/internal/model"
)

func newAcquireCmd(opts *options) *cobra.Command {
	var (
		cryomodules []string
		cavityList  string
		buffers     int
		decimation  int
		dataDir     string
		wait        bool
	)

	cmd := &cobra.Command{
		Use:   "acquire",
		Short: "Run the acquisition script for cavities of one or more cryomodules.",
		Long: "Run the acquisition script once per selected cryomodule rack. " +
			"Cavities 1-4 are read through rack A and 5-8 through rack B. With " +
			"--wait the command blocks until every acquisition finishes and stops " +
			"them on interrupt.",
		Example: "  microphonics acquire --cm 02 --cavities 1-4 --buffers 10 --wait\n" +
			"  microphonics acquire --cm h1,h2 --cavities all",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cavities, err := model.ParseCavityList(cavityList)
			if err != nil {
				return err
			}

			var racks []model.RackSelection
			for _, name := range cryomodules {
				cm, err := model.FindCryomodule(name)
				if err != nil {
					return err
				}
				groups, err := model.GroupByRack(cm, cavities)
				if err != nil {
					return err
				}
				racks = append(racks, groups...)
			}
			if len(racks) == 0 {
				return errors.New("no cryomodule selected, use --cm")
			}

			acqCfg := opts.cfg.Acquisition
			if dataDir != "" {
				acqCfg.DataDir = dataDir
			}
			if buffers <= 0 {
				buffers = acqCfg.Buffers
			}
			if decimation <= 0 {
				decimation = acqCfg.Decimation
			}

			svc := acquire.NewService(acqCfg)
			svc.SetVerbose(opts.cfg.Logging.Verbose)
			fmt.Fprintf(cmd.OutOrStdout(), "data directory: %s\n", svc.DataDir())
			return runAcquisitions(cmd, svc, racks, acquire.Options{Buffers: buffers, Decimation: decimation}, wait)
		},
	}

	cmd.Flags().StringSliceVar(&cryomodules, "cm", nil, "cryomodules, e.g. 02,03 or h1")
	cmd.Flags().StringVar(&cavityList, "cavities", "all", `cavities, e.g. "1-4", "1,3,6" or "all"`)
	cmd.Flags().IntVarP(&buffers, "buffers", "c", 0, "waveform buffers to collect (default from config)")
	cmd.Flags().IntVar(&decimation, "decimation", 0, "chassis decimation wave_samp_per (default from config)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&wait, "wait", true, "wait for the acquisitions to finish")
	_ = cmd.MarkFlagRequired("cm")
	return cmd
}

// runAcquisitions starts every rack selection and optionally waits for all of
// them. An interrupt while waiting stops the running tasks.
func runAcquisitions(cmd *cobra.Command, svc acquire.Acquirer, racks []model.RackSelection, opts acquire.Options, wait bool) error {
	out := cmd.OutOrStdout()

	var tasks []*model.AcquisitionTask
	var errs []error
	for _, rs := range racks {
		task, err := svc.StartAcquisition(rs, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rs, err))
			continue
		}
		fmt.Fprintf(out, "%s  %s  %s\n", task.ID, rs, task.OutputPath)
		tasks = append(tasks, task)
	}
	if !wait || len(tasks) == 0 {
		return errors.Join(errs...)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interrupted := false
	for _, task := range tasks {
		waitCtx := ctx
		if interrupted {
			waitCtx = context.Background()
		}
		done, err := svc.Wait(waitCtx, task.ID)
		if errors.Is(err, context.Canceled) {
			// stop what is still running once, then collect final states
			interrupted = true
			fmt.Fprintln(out, "interrupted, stopping acquisitions")
			for _, t := range tasks {
				_ = svc.StopAcquisition(t.ID)
			}
			done, err = svc.Wait(context.Background(), task.ID)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(out, "%s  %s  cavities %s\n", done.ID, done.Status, formatCavities(done.Cavities))
		if done.Status != model.TaskStatusCompleted {
			errs = append(errs, fmt.Errorf("%s %s: %s", done.ID, done.Status, done.LastError))
		}
	}
	return errors.Join(errs...)
}

// formatCavities renders a cavity list as "1,2,3".
func formatCavities(cavities []int) string {
	parts := make([]string, len(cavities))
	for i, c := range cavities {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}
