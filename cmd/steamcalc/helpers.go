package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/steamcalc/pkg/client"
	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/iapws"
	"github.com/charlie0129/steamcalc/pkg/report"
	"github.com/charlie0129/steamcalc/pkg/steam"
	"github.com/charlie0129/steamcalc/pkg/version"
)

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

func usesDaemon(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[annotationDaemon]; ok {
			return true
		}
	}
	for _, name := range []string{"remote", "remote-provider"} {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			return true
		}
	}
	return false
}

func checkDaemonVersion() {
	daemonVersion, err := newAPIClient().GetVersion()
	if err != nil {
		logrus.Debugf("failed to get daemon version: %v", err)
		return
	}
	if daemonVersion != version.Version {
		logrus.WithFields(logrus.Fields{
			"clientVersion": version.Version,
			"daemonVersion": daemonVersion,
		}).Warn("Version mismatch between client and daemon. Results may differ from a local calculation.")
	}
}

// loadLocalConfig reads the config file for local calculations. An unreadable
// file means defaults.
func loadLocalConfig() config.Config {
	c, err := config.NewFile(configPath)
	if err != nil {
		logrus.Warnf("using default settings: %v", err)
		return config.NewFileFromConfig(nil, configPath)
	}
	return c
}

// calcOptions are the flags shared by the commands that calculate.
type calcOptions struct {
	remote         bool
	remoteProvider bool
	json           bool
	precision      int
}

func (o *calcOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.remote, "remote", false, "calculate on the steamcalc daemon")
	f.BoolVar(&o.remoteProvider, "remote-provider", false, "calculate locally, but query the steam tables through the daemon")
	f.BoolVar(&o.json, "json", false, "print results as JSON")
	f.IntVar(&o.precision, "precision", -1, "decimals to round results to (default from config)")
}

// config returns the daemon's settings when it is involved, the local config
// file otherwise.
func (o *calcOptions) config() (config.Config, error) {
	if o.remote || o.remoteProvider {
		raw, err := newAPIClient().GetConfig()
		if err != nil {
			return nil, err
		}
		return config.NewFileFromConfig(raw, ""), nil
	}
	return loadLocalConfig(), nil
}

// resolvedPrecision returns the precision flag, or the configured one.
func (o *calcOptions) resolvedPrecision(c config.Config) (int, error) {
	if o.precision < 0 {
		return c.Precision(), nil
	}
	if o.precision > config.MaxPrecision {
		return 0, fmt.Errorf("precision must be between %d and %d, got %d", config.MinPrecision, config.MaxPrecision, o.precision)
	}
	return o.precision, nil
}

// localCalculator builds a calculator using the in-process steam tables, or
// the daemon's when remoteProvider is set.
func (o *calcOptions) localCalculator(c config.Config) (*steam.Calculator, error) {
	units, err := steam.ParseUnitSystem(c.Units())
	if err != nil {
		return nil, err
	}

	var provider steam.Provider = iapws.NewProvider()
	if o.remoteProvider {
		provider = client.NewRemoteProvider(newAPIClient())
	}

	return steam.NewCalculator(provider,
		steam.WithTimeout(c.ProviderTimeout()),
		steam.WithDefaultUnits(units),
	), nil
}

// calculate runs one two-state calculation. Remote results are already
// rounded by the daemon.
func (o *calcOptions) calculate(ctx context.Context, c config.Config, precision int, r1, r2 steam.StateRequest) (*steam.Result, error) {
	if o.remote {
		return newAPIClient().Calculate(ctx, r1, r2, &precision)
	}
	calc, err := o.localCalculator(c)
	if err != nil {
		return nil, err
	}
	return calc.Calculate(ctx, r1, r2)
}

func printResult(w io.Writer, res *steam.Result, precision int, asJSON bool) error {
	if asJSON {
		return writeJSON(w, report.Rounded(res, precision))
	}
	return report.Format(res, precision).WriteText(w)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
