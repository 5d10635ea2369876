package client

import (
	"context"
	"encoding/json"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/steam"
)

// Calculate evaluates two states on the daemon. precision may be nil to use
// the daemon's configured precision.
func (c *Client) Calculate(ctx context.Context, r1, r2 steam.StateRequest, precision *int) (*steam.Result, error) {
	payload, err := json.Marshal(struct {
		State1    steam.StateRequest `json:"state1"`
		State2    steam.StateRequest `json:"state2"`
		Precision *int               `json:"precision,omitempty"`
	}{r1, r2, precision})
	if err != nil {
		return nil, err
	}

	ret, err := c.Post(ctx, "/calculate", string(payload))
	if err != nil {
		return nil, err
	}

	var res steam.Result
	if err := json.Unmarshal([]byte(ret), &res); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal result")
	}
	return &res, nil
}

// Evaluate evaluates a single state on the daemon.
func (c *Client) Evaluate(ctx context.Context, r steam.StateRequest) (steam.PropertyBundle, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	ret, err := c.Post(ctx, "/evaluate", string(payload))
	if err != nil {
		return nil, err
	}
	return parseBundle(ret)
}

// Invoke runs one raw provider query on the daemon.
func (c *Client) Invoke(ctx context.Context, op steam.Op, args ...float64) (steam.PropertyBundle, error) {
	if args == nil {
		args = []float64{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	ret, err := c.Post(ctx, "/provider/"+string(op), string(payload))
	if err != nil {
		return nil, err
	}
	return parseBundle(ret)
}

func parseBundle(ret string) (steam.PropertyBundle, error) {
	var b steam.PropertyBundle
	if err := json.Unmarshal([]byte(ret), &b); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal property bundle")
	}
	return b, nil
}

func (c *Client) SetPrecision(p int) (string, error) {
	return c.Put("/precision", strconv.Itoa(p))
}

func (c *Client) SetUnits(units string) (string, error) {
	payload, err := json.Marshal(units)
	if err != nil {
		return "", err
	}
	return c.Put("/units", string(payload))
}

func (c *Client) SetProviderTimeout(seconds float64) (string, error) {
	return c.Put("/provider-timeout", strconv.FormatFloat(seconds, 'f', -1, 64))
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal config")
	}

	return &conf, nil
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}

// GetMetrics returns the daemon's metrics in the Prometheus text format.
func (c *Client) GetMetrics() (string, error) {
	ret, err := c.Get("/metrics")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get metrics")
	}
	return ret, nil
}
