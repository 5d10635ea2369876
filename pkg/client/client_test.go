package client

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/daemon"
	"github.com/charlie0129/steamcalc/pkg/events"
	"github.com/charlie0129/steamcalc/pkg/iapws"
	"github.com/charlie0129/steamcalc/pkg/steam"
	"github.com/charlie0129/steamcalc/pkg/utils/ptr"
	"github.com/charlie0129/steamcalc/pkg/version"
)

// startDaemon serves the daemon routes on a unix socket until the test ends.
func startDaemon(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	socket := filepath.Join(dir, "d.sock")

	c := config.NewFileFromConfig(nil, filepath.Join(dir, "steamcalc.json"))
	srv := &http.Server{Handler: daemon.NewRouter(c, iapws.NewProvider())}

	l, err := net.Listen("unix", socket)
	require.NoError(t, err)
	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return NewClient(socket)
}

func TestDaemonNotRunning(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	_, err := c.GetVersion()
	assert.ErrorIs(t, err, ErrDaemonNotRunning)
}

func TestClientAPIs(t *testing.T) {
	c := startDaemon(t)

	v, err := c.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, version.Version, v)

	_, err = c.SetPrecision(3)
	require.NoError(t, err)
	_, err = c.SetUnits("English")
	require.NoError(t, err)
	_, err = c.SetProviderTimeout(0.5)
	require.NoError(t, err)

	_, err = c.SetPrecision(99)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)

	conf, err := c.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, *conf.Precision)
	assert.Equal(t, "English", *conf.Units)
	assert.Equal(t, 0.5, *conf.ProviderTimeoutSeconds)

	_, err = c.Get("/nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientCalculate(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	res, err := c.Calculate(ctx,
		steam.StateRequest{Kind: "Pressure", Value: "100000"},
		steam.StateRequest{Kind: "Pressure", Value: "200000"},
		ptr.To(1),
	)
	require.NoError(t, err)
	assert.Equal(t, 99.6, res.State1[steam.KeyTemperature])
	assert.Equal(t, 20.6, res.Delta[steam.KeyTemperature])

	_, err = c.Calculate(ctx,
		steam.StateRequest{Kind: "Pressure", Value: "abc"},
		steam.StateRequest{Kind: "Pressure", Value: "200000"},
		nil,
	)
	assert.ErrorIs(t, err, steam.ErrInvalidNumericInput)

	b, err := c.Evaluate(ctx, steam.StateRequest{Kind: "Quality", Value: "100000, 5000"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, b[steam.KeyQuality])

	_, err = c.Evaluate(ctx, steam.StateRequest{Kind: "Quality", Value: "100000"})
	assert.ErrorIs(t, err, steam.ErrMalformedInput)
}

func TestRemoteProviderMatchesLocal(t *testing.T) {
	c := startDaemon(t)
	ctx := context.Background()

	remote := steam.NewCalculator(NewRemoteProvider(c))
	local := steam.NewCalculator(iapws.NewProvider())

	for _, r := range []steam.StateRequest{
		{Kind: "Pressure", Value: "101325"},
		{Kind: "Temperature", Value: "1e6, 300"},
		{Kind: "Enthalpy", Value: "1e6, 3051.7"},
		{Kind: "Entropy", Value: "1e5, 4"},
		{Kind: "Volume", Value: "1e5, 1"},
		{Kind: "Quality", Value: "1e5, 1500"},
	} {
		want, err := local.Evaluate(ctx, r)
		require.NoError(t, err, r.Kind)
		got, err := remote.Evaluate(ctx, r)
		require.NoError(t, err, r.Kind)
		assert.Equal(t, want, got, r.Kind)
	}

	_, err := remote.Evaluate(ctx, steam.StateRequest{Kind: "Pressure", Value: "1e9"})
	var pe *steam.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, steam.OpSaturationTemperature, pe.Op)
	// The op is reported once.
	assert.Equal(t, 1, strings.Count(err.Error(), string(steam.OpSaturationTemperature)))
}

func TestSubscribeEvents(t *testing.T) {
	c := startDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := c.SubscribeEvents(ctx)

	// The subscription is live once the daemon has registered it; retry
	// until an event makes it through.
	var ev events.Event
	deadline := time.After(5 * time.Second)
	for got := false; !got; {
		_, err := c.SetPrecision(2)
		require.NoError(t, err)
		select {
		case ev = <-ch:
			got = true
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("no event received")
		}
	}
	assert.Equal(t, events.ConfigChanged, ev.Name)
	payload, err := events.DecodeAs[events.ConfigChangedEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, "precision", payload.Key)

	cancel()
	for range ch {
	}
}

func TestReadEvents(t *testing.T) {
	stream := "event:ping\ndata:connected\n\n" +
		"event: calculation.completed\ndata: {\"endpoint\":\"calculate\"}\n\n" +
		"event:config.changed\ndata:{\"key\":\"units\",\ndata:\"value\":\"SI\"}\n\n"

	out := make(chan events.Event, 4)
	readEvents(context.Background(), bufio.NewScanner(strings.NewReader(stream)), out)
	close(out)

	var got []events.Event
	for ev := range out {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	assert.Equal(t, events.CalculationCompleted, got[0].Name)
	assert.JSONEq(t, `{"endpoint":"calculate"}`, string(got[0].Data))
	assert.Equal(t, events.ConfigChanged, got[1].Name)
	assert.JSONEq(t, `{"key":"units","value":"SI"}`, string(got[1].Data))
}
