package steam

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// RawValue is the text a user entered for a state. In JSON it may also be a
// number or an array of numbers.
type RawValue string

func (v *RawValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = RawValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*v = RawValue(n.String())
		return nil
	}

	var ns []json.Number
	if err := json.Unmarshal(b, &ns); err != nil {
		return pkgerrors.Wrapf(ErrInvalidNumericInput, "value must be a string, a number or an array of numbers")
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	*v = RawValue(strings.Join(parts, ","))
	return nil
}

func (v *RawValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = RawValue(node.Value)
		return nil
	case yaml.SequenceNode:
		parts := make([]string, len(node.Content))
		for i, n := range node.Content {
			if n.Kind != yaml.ScalarNode {
				return pkgerrors.Wrapf(ErrInvalidNumericInput, "line %d: value must be a list of numbers", n.Line)
			}
			parts[i] = n.Value
		}
		*v = RawValue(strings.Join(parts, ","))
		return nil
	default:
		return pkgerrors.Wrapf(ErrInvalidNumericInput, "line %d: value must be a number or a list of numbers", node.Line)
	}
}

// StateRequest is the unparsed input for one state, as entered by a user.
type StateRequest struct {
	Kind  string   `json:"kind" yaml:"kind"`
	Value RawValue `json:"value" yaml:"value"`
	// Units is "SI" or "English". Empty means the calculator default.
	Units string `json:"units,omitempty" yaml:"units,omitempty"`
}

// Result holds both states and their difference, unrounded and in SI units.
type Result struct {
	State1 PropertyBundle `json:"state1"`
	State2 PropertyBundle `json:"state2"`
	Delta  DeltaBundle    `json:"delta"`
}

// Calculator runs the two state pipeline against a Provider.
type Calculator struct {
	provider     Provider
	timeout      time.Duration
	defaultUnits UnitSystem
	logger       logrus.FieldLogger
}

type Option func(*Calculator)

// WithTimeout bounds every provider query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Calculator) { c.timeout = d }
}

// WithDefaultUnits sets the unit system used when a request has no units.
func WithDefaultUnits(u UnitSystem) Option {
	return func(c *Calculator) { c.defaultUnits = u }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Calculator) { c.logger = l }
}

func NewCalculator(provider Provider, opts ...Option) *Calculator {
	c := &Calculator{
		provider:     provider,
		defaultUnits: SI,
		logger:       logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Parse turns a StateRequest into a validated StateInput.
func (c *Calculator) Parse(r StateRequest) (StateInput, error) {
	units := r.Units
	if strings.TrimSpace(units) == "" {
		units = c.defaultUnits.String()
	}
	in, err := ParseStateInput(r.Kind, string(r.Value), units)
	if err != nil {
		return StateInput{}, err
	}
	if err := in.Validate(); err != nil {
		return StateInput{}, err
	}
	return in, nil
}

// Evaluate parses and evaluates a single state.
func (c *Calculator) Evaluate(ctx context.Context, r StateRequest) (PropertyBundle, error) {
	in, err := c.Parse(r)
	if err != nil {
		return nil, err
	}
	return c.evaluate(ctx, in)
}

// Calculate evaluates both states and their difference. Both requests are
// parsed and validated before either state is evaluated.
func (c *Calculator) Calculate(ctx context.Context, r1, r2 StateRequest) (*Result, error) {
	in1, err := c.Parse(r1)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "state 1")
	}
	in2, err := c.Parse(r2)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "state 2")
	}

	b1, err := c.evaluate(ctx, in1)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "state 1")
	}
	b2, err := c.evaluate(ctx, in2)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "state 2")
	}

	return &Result{
		State1: b1,
		State2: b2,
		Delta:  Diff(b1, b2),
	}, nil
}

func (c *Calculator) evaluate(ctx context.Context, in StateInput) (PropertyBundle, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	bundle, err := Evaluate(ctx, in, c.provider)
	entry := c.logger.WithFields(logrus.Fields{
		"kind":    in.kind,
		"units":   in.units,
		"values":  formatValues(in.values),
		"latency": time.Since(start),
	})
	if err != nil {
		if errors.Is(err, ErrUnsupportedProperty) {
			entry.Errorf("dispatch failed, this is a bug: %v", err)
		} else {
			entry.Debugf("evaluation failed: %v", err)
		}
		return nil, err
	}
	entry.Debug("state evaluated")
	return bundle, nil
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
