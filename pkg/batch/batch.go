// Package batch evaluates many state pairs from a YAML or JSON file.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

// Pair is one two-state calculation.
type Pair struct {
	Name   string             `yaml:"name" json:"name"`
	State1 steam.StateRequest `yaml:"state1" json:"state1"`
	State2 steam.StateRequest `yaml:"state2" json:"state2"`
}

// File is the structure of a batch file, e.g.
//
//	precision: 3
//	units: SI
//	pairs:
//	  - name: boiler
//	    state1: {kind: Pressure, value: 100000}
//	    state2: {kind: Enthalpy, value: [100000, 2700]}
type File struct {
	// Precision overrides the configured precision when set.
	Precision *int `yaml:"precision,omitempty" json:"precision,omitempty"`
	// Units is applied to states without units.
	Units string `yaml:"units,omitempty" json:"units,omitempty"`
	Pairs []Pair `yaml:"pairs" json:"pairs"`
}

// Load reads a batch file. Files ending in .json are JSON, anything else is
// YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read batch file %s", path)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)) == ".json")
}

// Parse decodes a batch file from data.
func Parse(data []byte, isJSON bool) (*File, error) {
	var f File
	if isJSON {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to parse batch JSON")
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to parse batch YAML")
		}
	}

	if len(f.Pairs) == 0 {
		return nil, pkgerrors.Wrapf(steam.ErrMalformedInput, "batch file has no pairs")
	}
	if f.Units != "" {
		if _, err := steam.ParseUnitSystem(f.Units); err != nil {
			return nil, err
		}
	}
	for i := range f.Pairs {
		p := &f.Pairs[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("pair %d", i+1)
		}
		if p.State1.Units == "" {
			p.State1.Units = f.Units
		}
		if p.State2.Units == "" {
			p.State2.Units = f.Units
		}
	}
	return &f, nil
}

// Outcome is the result of one pair. Exactly one of Result and Err is set.
type Outcome struct {
	Name   string
	Result *steam.Result
	Err    error
}

// Calculator evaluates state pairs. *steam.Calculator satisfies it;
// CalculatorFunc adapts the daemon client.
type Calculator interface {
	Calculate(ctx context.Context, r1, r2 steam.StateRequest) (*steam.Result, error)
}

// CalculatorFunc adapts a function to Calculator.
type CalculatorFunc func(ctx context.Context, r1, r2 steam.StateRequest) (*steam.Result, error)

func (f CalculatorFunc) Calculate(ctx context.Context, r1, r2 steam.StateRequest) (*steam.Result, error) {
	return f(ctx, r1, r2)
}

// Run evaluates every pair in order. A failed pair does not stop the batch;
// a cancelled ctx does.
func Run(ctx context.Context, calc Calculator, pairs []Pair) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(pairs))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		res, err := calc.Calculate(ctx, p.State1, p.State2)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"pair":  p.Name,
				"class": steam.Classify(err),
			}).Debugf("pair failed: %v", err)
		}
		outcomes = append(outcomes, Outcome{Name: p.Name, Result: res, Err: err})
	}
	return outcomes, nil
}

// Failed counts the outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
