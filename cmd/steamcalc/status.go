package main

import (
	"bufio"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/version"
)

type statusData struct {
	daemonVersion string
	config        *config.RawFileConfig
	requests      map[string]string
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	apiClient := newAPIClient()

	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to get daemon version: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	metrics, err := apiClient.GetMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics: %w", err)
	}

	return &statusData{
		daemonVersion: daemonVersion,
		config:        conf,
		requests:      requestCounts(metrics),
	}, nil
}

// requestCounts picks the request counters out of the Prometheus text format,
// keyed by their label set.
func requestCounts(metrics string) map[string]string {
	const name = "steamcalc_requests_total{"
	counts := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(metrics))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, name) {
			continue
		}
		labels, value, ok := strings.Cut(strings.TrimPrefix(line, name), "} ")
		if !ok {
			continue
		}
		counts[labels] = value
	}
	return counts
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "status",
		GroupID:     gDaemon,
		Short:       "Get the current status of the steamcalc daemon",
		Long:        `Get the daemon version, its configuration and request counts.`,
		Annotations: map[string]string{annotationDaemon: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			conf := config.NewFileFromConfig(data.config, "")
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, bold("Daemon:"))
			fmt.Fprintf(w, "  Version: %s\n", bold("%s", data.daemonVersion))
			fmt.Fprintf(w, "  Same version as this client: %s\n", bool2Text(data.daemonVersion == version.Version))
			fmt.Fprintln(w)

			fmt.Fprintln(w, bold("Configuration:"))
			fmt.Fprintf(w, "  Precision: %s\n", bold("%d decimals", conf.Precision()))
			fmt.Fprintf(w, "  Default units: %s\n", bold("%s", conf.Units()))
			if conf.ProviderTimeout() > 0 {
				fmt.Fprintf(w, "  Provider timeout: %s\n", bold("%s", conf.ProviderTimeout()))
			} else {
				fmt.Fprintf(w, "  Provider timeout: %s\n", bold("disabled"))
			}
			fmt.Fprintf(w, "  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))

			if len(data.requests) > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, bold("Requests:"))
				labels := make([]string, 0, len(data.requests))
				for l := range data.requests {
					labels = append(labels, l)
				}
				sort.Strings(labels)
				for _, l := range labels {
					fmt.Fprintf(w, "  %s: %s\n", l, bold("%s", data.requests[l]))
				}
			}
			return nil
		},
	}
}
