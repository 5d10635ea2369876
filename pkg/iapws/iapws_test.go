package iapws

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verification values from IAPWS-IF97, tables 5, 15, 35 and 36.

func TestRegion1(t *testing.T) {
	tests := []struct {
		p, t    float64
		v, h, s float64
	}{
		{3, 300, 0.100215168e-2, 0.115331273e3, 0.392294792},
		{80, 300, 0.971180894e-3, 0.184142828e3, 0.368563852},
		{3, 500, 0.120241800e-2, 0.975542239e3, 0.258041912e1},
	}
	for _, tt := range tests {
		got := region1(tt.p, tt.t)
		assert.InEpsilon(t, tt.v, got.V, 1e-8, "v(%g MPa, %g K)", tt.p, tt.t)
		assert.InEpsilon(t, tt.h, got.H, 1e-8, "h(%g MPa, %g K)", tt.p, tt.t)
		assert.InEpsilon(t, tt.s, got.S, 1e-8, "s(%g MPa, %g K)", tt.p, tt.t)
	}

	u := region1(3, 300).U
	assert.InEpsilon(t, 0.112324818e3, u, 1e-8)
}

func TestRegion2(t *testing.T) {
	tests := []struct {
		p, t    float64
		v, h, s float64
	}{
		{0.0035, 300, 0.394913866e2, 0.254991145e4, 0.852238967e1},
		{0.0035, 700, 0.923015898e2, 0.333568375e4, 0.101749996e2},
		{30, 700, 0.542946619e-2, 0.263149474e4, 0.517540298e1},
	}
	for _, tt := range tests {
		got := region2(tt.p, tt.t)
		assert.InEpsilon(t, tt.v, got.V, 1e-8, "v(%g MPa, %g K)", tt.p, tt.t)
		assert.InEpsilon(t, tt.h, got.H, 1e-8, "h(%g MPa, %g K)", tt.p, tt.t)
		assert.InEpsilon(t, tt.s, got.S, 1e-8, "s(%g MPa, %g K)", tt.p, tt.t)
	}
}

func TestSaturationLine(t *testing.T) {
	for _, tt := range []struct{ p, t float64 }{
		{0.1, 0.372755919e3},
		{1, 0.453035632e3},
		{10, 0.584149488e3},
	} {
		got, err := SaturationTemperature(tt.p)
		require.NoError(t, err)
		assert.InEpsilon(t, tt.t, got, 1e-9, "Tsat(%g MPa)", tt.p)
	}

	for _, tt := range []struct{ t, p float64 }{
		{300, 0.353658941e-2},
		{500, 0.263889776e1},
		{600, 0.123443146e2},
	} {
		got, err := SaturationPressure(tt.t)
		require.NoError(t, err)
		assert.InEpsilon(t, tt.p, got, 1e-8, "psat(%g K)", tt.t)
	}

	_, err := SaturationTemperature(30)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = SaturationTemperature(1e-4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = SaturationPressure(700)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestBoundary23(t *testing.T) {
	// Table 3 of IAPWS-IF97.
	assert.InEpsilon(t, 0.165291643e2, boundary23Pressure(623.15), 1e-8)
	assert.InEpsilon(t, 0.623150000e3, boundary23Temperature(0.165291643e2), 1e-8)
}

func TestRegionPT(t *testing.T) {
	tests := []struct {
		name       string
		p, t       float64
		wantRegion int
		wantErr    bool
	}{
		{name: "cold water", p: 0.1, t: 300, wantRegion: 1},
		{name: "vapor below psat", p: 0.001, t: 300, wantRegion: 2},
		{name: "superheated", p: 1, t: 500, wantRegion: 2},
		{name: "below the 2/3 boundary", p: 30, t: 700, wantRegion: 2},
		{name: "hot and above 863.15 K", p: 90, t: 900, wantRegion: 2},
		{name: "region 3", p: 50, t: 700, wantErr: true},
		{name: "too hot", p: 0.1, t: 1200, wantErr: true},
		{name: "ice", p: 0.1, t: 250, wantErr: true},
		{name: "too much pressure", p: 120, t: 400, wantErr: true},
		{name: "no pressure", p: 0, t: 400, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := regionPT(tt.p, tt.t)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRegion, got)
		})
	}
}

func TestStatePRoundTrip(t *testing.T) {
	points := []struct {
		name string
		p, t float64
	}{
		{"compressed liquid", 10, 400},
		{"liquid at 1 bar", 0.1, 350},
		{"high pressure liquid", 20, 500},
		{"superheated", 1, 500},
		{"low pressure vapor", 0.0035, 700},
		{"above the 2/3 boundary", 20, 900},
		{"supercritical vapor", 30, 700},
		{"below triple point pressure", 0.0005, 400},
	}
	for _, pt := range points {
		want, err := StatePT(pt.p, pt.t)
		require.NoError(t, err, pt.name)

		for _, prop := range []Property{Enthalpy, Entropy, Volume} {
			t.Run(pt.name+"/"+prop.Name, func(t *testing.T) {
				got, err := StateP(pt.p, prop, prop.Of(want))
				require.NoError(t, err)
				assert.Equal(t, want.Region, got.Region)
				assert.InDelta(t, pt.t, got.T, 1e-6)
				assert.InEpsilon(t, want.H, got.H, 1e-9)
			})
		}
	}
}

func TestStatePTwoPhase(t *testing.T) {
	liquid, vapor, err := Saturation(0.1)
	require.NoError(t, err)

	for _, prop := range []Property{Enthalpy, Entropy, Volume} {
		t.Run(prop.Name, func(t *testing.T) {
			target := prop.Of(liquid) + 0.25*(prop.Of(vapor)-prop.Of(liquid))
			got, err := StateP(0.1, prop, target)
			require.NoError(t, err)
			assert.Equal(t, 4, got.Region)
			assert.InDelta(t, 0.25, got.Quality, 1e-12)
			assert.InDelta(t, 0.372755919e3, got.T, 1e-6)
			assert.InDelta(t, liquid.H+0.25*(vapor.H-liquid.H), got.H, 1e-9)
		})
	}
}

func TestStatePOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		prop   Property
		target float64
	}{
		{"inside the dome near the critical point", 20, Enthalpy, 2000},
		{"supercritical region 3", 25, Enthalpy, 2100},
		{"hotter than region 2", 0.1, Enthalpy, 5000},
		{"colder than region 1", 0.1, Enthalpy, -10},
		{"no pressure", 0, Enthalpy, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StateP(tt.p, tt.prop, tt.target)
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}
}

func TestQualityPH(t *testing.T) {
	liquid, vapor, err := Saturation(1)
	require.NoError(t, err)

	tests := []struct {
		name string
		h    float64
		want float64
	}{
		{"subcooled", liquid.H - 100, 0},
		{"saturated liquid", liquid.H, 0},
		{"wet", liquid.H + 0.4*(vapor.H-liquid.H), 0.4},
		{"saturated vapor", vapor.H, 1},
		{"superheated", vapor.H + 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, _, _, err := QualityPH(1, tt.h)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, x, 1e-12)
		})
	}

	_, _, _, err = QualityPH(21, 2000)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestBundleDensity(t *testing.T) {
	s := region1(3, 300)
	b := Bundle(s)
	assert.InDelta(t, 1/s.V, b["density"], 1e-12)
	assert.InDelta(t, 3e6, b["pressure"], 1e-6)
	assert.InDelta(t, 300-273.15, b["temperature"], 1e-9)
	assert.Equal(t, 0.0, b["quality"])

	super := region2(30, 700)
	assert.NotContains(t, Bundle(super), "quality")
	assert.False(t, math.IsNaN(Bundle(super)["entropy"]))
}
