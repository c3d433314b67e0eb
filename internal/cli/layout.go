package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srf-tools/microphonics/internal/model"
)

func newLayoutCmd(opts *options) *cobra.Command {
	var linac string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "List linacs, cryomodules and their resonance chassis PV prefixes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LINAC\tCM\tRACK A\tRACK B")

			found := false
			for _, l := range model.Machine() {
				if linac != "" && !strings.EqualFold(l.Name, linac) {
					continue
				}
				found = true
				for _, cm := range l.Cryomodules {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Name, cm,
						cm.ResonancePrefix(model.RackA), cm.ResonancePrefix(model.RackB))
				}
			}
			if !found {
				return fmt.Errorf("unknown linac: %s", linac)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&linac, "linac", "", "only list this linac (L0B, L1B, L2B, L3B)")
	return cmd
}
