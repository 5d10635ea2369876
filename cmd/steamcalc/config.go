package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Change the daemon's settings",
		GroupID:     gDaemon,
		Annotations: map[string]string{annotationDaemon: ""},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "precision DECIMALS",
			Short: "Set the number of decimals results are rounded to",
			RunE: func(_ *cobra.Command, args []string) error {
				p, err := parseIntArg(args, "precision")
				if err != nil {
					return err
				}

				ret, err := newAPIClient().SetPrecision(p)
				if err != nil {
					return fmt.Errorf("failed to set precision: %w", err)
				}

				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}

				logrus.Infof("successfully set precision to %d", p)

				return nil
			},
		},
		&cobra.Command{
			Use:   "units SI|English",
			Short: "Set the unit system used for states entered without one",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				ret, err := newAPIClient().SetUnits(args[0])
				if err != nil {
					return fmt.Errorf("failed to set units: %w", err)
				}

				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}

				logrus.Infof("successfully set units to %s", args[0])

				return nil
			},
		},
		&cobra.Command{
			Use:   "timeout SECONDS",
			Short: "Set how long a steam table query may take, 0 to disable",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				seconds, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid timeout: %v", err)
				}

				ret, err := newAPIClient().SetProviderTimeout(seconds)
				if err != nil {
					return fmt.Errorf("failed to set provider timeout: %w", err)
				}

				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}

				logrus.Infof("successfully set provider timeout to %gs", seconds)

				return nil
			},
		},
	)

	return cmd
}
