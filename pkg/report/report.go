// Package report renders calculation results for people: values rounded to a
// fixed number of decimals, keys capitalized and in a stable order.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

// DefaultPrecision is the number of decimals used when none is configured.
const DefaultPrecision = 2

var keyOrder = map[string]int{
	steam.KeyPressure:       0,
	steam.KeyTemperature:    1,
	steam.KeyEnthalpy:       2,
	steam.KeyEntropy:        3,
	steam.KeyVolume:         4,
	steam.KeyQuality:        5,
	steam.KeyDensity:        6,
	steam.KeyInternalEnergy: 7,
}

// Entry is one rounded property.
type Entry struct {
	Name  string
	Value float64
}

// Section is a titled list of entries.
type Section struct {
	Title   string
	Entries []Entry
}

// Report is a rounded Result, ready to print.
type Report struct {
	Precision int
	State1    Section
	State2    Section
	Delta     Section
}

// Round rounds v to precision decimals, half away from zero.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	p := math.Pow(10, float64(precision))
	r := math.Round(v*p) / p
	if r == 0 {
		// No "-0.00".
		return 0
	}
	return r
}

// Capitalize upper-cases the first letter of key and lower-cases the rest,
// e.g. "internal energy" becomes "Internal energy".
func Capitalize(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(key[size:])
}

// SortedKeys returns the keys of m in display order: the well known
// properties first, then everything else alphabetically.
func SortedKeys[M ~map[string]float64](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iKnown := keyOrder[keys[i]]
		oj, jKnown := keyOrder[keys[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

func section[M ~map[string]float64](title string, m M, precision int) Section {
	s := Section{Title: title}
	for _, k := range SortedKeys(m) {
		s.Entries = append(s.Entries, Entry{Name: Capitalize(k), Value: Round(m[k], precision)})
	}
	return s
}

// Format rounds every value of res to precision decimals. A negative
// precision means DefaultPrecision.
func Format(res *steam.Result, precision int) *Report {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &Report{
		Precision: precision,
		State1:    section("State 1 Properties:", res.State1, precision),
		State2:    section("State 2 Properties:", res.State2, precision),
		Delta:     section("Change in Properties:", res.Delta, precision),
	}
}

// FormatBundle rounds a single state.
func FormatBundle(b steam.PropertyBundle, precision int) Section {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return section("State Properties:", b, precision)
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}

// WriteText writes the section as "Name: value" lines under a bold title.
func (s Section) WriteText(w io.Writer, precision int) error {
	if _, err := fmt.Fprintln(w, bold(s.Title)); err != nil {
		return err
	}
	for _, e := range s.Entries {
		if _, err := fmt.Fprintf(w, "%s: %.*f\n", e.Name, precision, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes all three sections separated by blank lines.
func (r *Report) WriteText(w io.Writer) error {
	for i, s := range []Section{r.State1, r.State2, r.Delta} {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := s.WriteText(w, r.Precision); err != nil {
			return err
		}
	}
	return nil
}

// Rounded returns res with every value rounded, keeping the original keys.
func Rounded(res *steam.Result, precision int) *steam.Result {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return &steam.Result{
		State1: roundBundle(res.State1, precision),
		State2: roundBundle(res.State2, precision),
		Delta:  steam.DeltaBundle(roundBundle(steam.PropertyBundle(res.Delta), precision)),
	}
}

func roundBundle(b steam.PropertyBundle, precision int) steam.PropertyBundle {
	out := make(steam.PropertyBundle, len(b))
	for k, v := range b {
		out[k] = Round(v, precision)
	}
	return out
}

// RoundBundle rounds every value of b.
func RoundBundle(b steam.PropertyBundle, precision int) steam.PropertyBundle {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return roundBundle(b, precision)
}
