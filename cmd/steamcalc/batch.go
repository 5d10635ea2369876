package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/steamcalc/pkg/batch"
	"github.com/charlie0129/steamcalc/pkg/report"
	"github.com/charlie0129/steamcalc/pkg/steam"
)

type batchOutcomeJSON struct {
	Name   string             `json:"name"`
	Result *steam.Result      `json:"result,omitempty"`
	Error  *steam.ErrorReport `json:"error,omitempty"`
}

func NewBatchCommand() *cobra.Command {
	var opts calcOptions

	cmd := &cobra.Command{
		Use:     "batch FILE",
		Short:   "Calculate every state pair in a YAML or JSON file",
		GroupID: gBasic,
		Long: `Calculate every state pair in a YAML or JSON file.

Files ending in .json are read as JSON, anything else as YAML:

  precision: 3      # optional
  units: SI         # optional, applies to states without units
  pairs:
    - name: boiler
      state1: {kind: Pressure, value: 100000}
      state2: {kind: Enthalpy, value: [100000, 2700]}

A pair that fails does not stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := batch.Load(args[0])
			if err != nil {
				return err
			}

			conf, err := opts.config()
			if err != nil {
				return err
			}
			precision, err := opts.resolvedPrecision(conf)
			if err != nil {
				return err
			}
			if f.Precision != nil && !cmd.Flags().Changed("precision") {
				precision = *f.Precision
			}

			calc := batch.CalculatorFunc(func(ctx context.Context, r1, r2 steam.StateRequest) (*steam.Result, error) {
				return opts.calculate(ctx, conf, precision, r1, r2)
			})
			outcomes, err := batch.Run(cmd.Context(), calc, f.Pairs)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.json {
				out := make([]batchOutcomeJSON, len(outcomes))
				for i, o := range outcomes {
					out[i].Name = o.Name
					if o.Err != nil {
						rep := steam.NewErrorReport(o.Err)
						out[i].Error = &rep
					} else {
						out[i].Result = report.Rounded(o.Result, precision)
					}
				}
				if err := writeJSON(w, out); err != nil {
					return err
				}
			} else {
				for i, o := range outcomes {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprintln(w, bold("== %s ==", o.Name))
					if o.Err != nil {
						fmt.Fprintln(w, color.RedString("Error: %v", o.Err))
						continue
					}
					if err := report.Format(o.Result, precision).WriteText(w); err != nil {
						return err
					}
				}
			}

			if n := batch.Failed(outcomes); n > 0 {
				return fmt.Errorf("%d of %d pairs failed", n, len(outcomes))
			}
			return nil
		},
	}

	opts.addFlags(cmd)

	return cmd
}
