package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/steamcalc/pkg/client"
	"github.com/charlie0129/steamcalc/pkg/iapws"
	"github.com/charlie0129/steamcalc/pkg/steam"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/steamcalc.sock"
	configPath     = "/etc/steamcalc.json"
)

var (
	gBasic        = "Basic:"
	gDaemon       = "Daemon:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gDaemon,
		gInstallation,
	}
)

// annotationDaemon marks commands that talk to the daemon.
const annotationDaemon = "steamcalc/daemon"

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(w io.Writer, err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(w, "\nError: steamcalc daemon is not running")
		fmt.Fprintln(w, "Start it with 'steamcalc daemon', or drop '--remote' to calculate locally.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(w, "\nError: Permission Denied")
		fmt.Fprintln(w, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(w, "  - Or restart the daemon with the '--always-allow-non-root-access' flag to grant permissions to your user")
	}

	switch steam.Classify(err) {
	case steam.ClassInvalidNumericInput:
		fmt.Fprintln(w, "\nInvalid input. Please enter a numeric value.")
	case steam.ClassMalformedInput:
		fmt.Fprintln(w, "\nEach property takes these values, separated by a comma:")
		for _, k := range steam.Kinds() {
			inputs, _ := steam.Signature(k)
			names := make([]string, len(inputs))
			for i, in := range inputs {
				names[i] = in.String()
			}
			fmt.Fprintf(w, "  %-12s %s\n", k.String()+":", strings.Join(names, ", "))
		}
		fmt.Fprintln(w, "Units are SI or English.")
	case steam.ClassUnsupportedProperty:
		names := make([]string, 0, len(steam.Kinds()))
		for _, k := range steam.Kinds() {
			names = append(names, k.String())
		}
		fmt.Fprintf(w, "\nSupported properties: %s\n", strings.Join(names, ", "))
	case steam.ClassProvider:
		if errors.Is(err, iapws.ErrOutOfRange) {
			fmt.Fprintln(w, "\nThe state is outside the steam tables: liquid and vapor from 0 to 800 °C up to 100 MPa,")
			fmt.Fprintln(w, "except near the critical point (above 350 °C and 16.5 MPa).")
		}
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(os.Stderr, err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steamcalc",
		Short: "steamcalc computes water and steam properties of two states and their difference",
		Long: `steamcalc computes water and steam properties of two states and their difference.

A state is anchored by one property kind. Pressure alone gives the saturation
state; every other kind takes a pressure first, e.g. "Enthalpy" with
"100000,2700" is 1 bar and 2700 kJ/kg. SI values are Pa, °C, kJ/kg,
kJ/(kg K) and m³/kg. English temperatures (°F) and pressures (psi) are
converted to SI before lookup.

Properties come from the IAPWS-IF97 industrial formulation, computed locally
or by the steamcalc daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			if usesDaemon(cmd) {
				checkDaemonVersion()
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "steamcalc daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewCalcCommand(),
		NewStateCommand(),
		NewBatchCommand(),
		NewDaemonCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
		NewConfigCommand(),
		NewStatusCommand(),
		NewVersionCommand(),
	)

	return cmd
}
