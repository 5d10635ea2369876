package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/events"
	"github.com/charlie0129/steamcalc/pkg/iapws"
	"github.com/charlie0129/steamcalc/pkg/steam"
	"github.com/charlie0129/steamcalc/pkg/version"
)

// blockingProvider never answers before its context is done.
type blockingProvider struct{ iapws.Provider }

func (blockingProvider) SaturationTemperature(ctx context.Context, _ float64) (steam.PropertyBundle, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func setupTest(t *testing.T, p steam.Provider) (*gin.Engine, *config.File) {
	t.Helper()
	c := config.NewFileFromConfig(nil, filepath.Join(t.TempDir(), "steamcalc.json"))
	return NewRouter(c, p), c
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) steam.ErrorReport {
	t.Helper()
	var r steam.ErrorReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r), w.Body.String())
	return r
}

func TestCalculate(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())

	w := do(r, http.MethodPost, "/calculate", `{
		"state1": {"kind": "Pressure", "value": "100000", "units": "SI"},
		"state2": {"kind": "Pressure", "value": 200000}
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res steam.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 99.61, res.State1[steam.KeyTemperature])
	assert.Equal(t, 120.21, res.State2[steam.KeyTemperature])
	assert.Equal(t, 20.61, res.Delta[steam.KeyTemperature])

	w = do(r, http.MethodPost, "/calculate", `{
		"state1": {"kind": "Pressure", "value": "100000"},
		"state2": {"kind": "Temperature", "value": [100000, 150]},
		"precision": 0
	}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 100.0, res.State1[steam.KeyTemperature])
	assert.Equal(t, 150.0, res.State2[steam.KeyTemperature])
}

func TestCalculateErrors(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantClass  string
	}{
		{
			name:       "not a number",
			body:       `{"state1":{"kind":"Pressure","value":"abc"},"state2":{"kind":"Pressure","value":"1e5"}}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassInvalidNumericInput,
		},
		{
			name:       "not a number in json",
			body:       `{"state1":{"kind":"Pressure","value":true},"state2":{"kind":"Pressure","value":"1e5"}}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassInvalidNumericInput,
		},
		{
			name:       "missing pressure",
			body:       `{"state1":{"kind":"Enthalpy","value":"2500"},"state2":{"kind":"Pressure","value":"1e5"}}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassMalformedInput,
		},
		{
			name:       "unknown units",
			body:       `{"state1":{"kind":"Pressure","value":"1e5","units":"metric"},"state2":{"kind":"Pressure","value":"1e5"}}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassMalformedInput,
		},
		{
			name:       "broken body",
			body:       `{"state1":`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassMalformedInput,
		},
		{
			name:       "precision out of range",
			body:       `{"state1":{"kind":"Pressure","value":"1e5"},"state2":{"kind":"Pressure","value":"1e5"},"precision":11}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassMalformedInput,
		},
		{
			name:       "unknown kind",
			body:       `{"state1":{"kind":"Viscosity","value":"1"},"state2":{"kind":"Pressure","value":"1e5"}}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  steam.ClassUnsupportedProperty,
		},
		{
			name:       "outside the steam tables",
			body:       `{"state1":{"kind":"Pressure","value":"1e5"},"state2":{"kind":"Pressure","value":"1e9"}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantClass:  steam.ClassProvider,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/calculate", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantClass, decodeError(t, w).Class)
		})
	}
}

func TestCalculateProviderErrorCarriesOp(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())

	w := do(r, http.MethodPost, "/calculate",
		`{"state1":{"kind":"Pressure","value":"1e5"},"state2":{"kind":"Pressure","value":"1e9"}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	rep := decodeError(t, w)
	assert.Equal(t, string(steam.OpSaturationTemperature), rep.Op)
	assert.Contains(t, rep.Cause, "outside")
	assert.ErrorIs(t, rep.Err(), steam.ErrProvider)
}

func TestCalculateTimeout(t *testing.T) {
	r, c := setupTest(t, blockingProvider{})
	c.SetProviderTimeout(20 * time.Millisecond)

	w := do(r, http.MethodPost, "/calculate",
		`{"state1":{"kind":"Pressure","value":"1e5"},"state2":{"kind":"Pressure","value":"2e5"}}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())
	assert.Equal(t, steam.ClassProvider, decodeError(t, w).Class)

	// Other queries still work after a timeout.
	w = do(r, http.MethodPost, "/evaluate", `{"kind":"Temperature","value":"1e5,25"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestEvaluate(t *testing.T) {
	r, c := setupTest(t, iapws.NewProvider())
	c.SetUnits("English")

	w := do(r, http.MethodPost, "/evaluate", `{"kind":"Temperature","value":"14.7,212"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var b steam.PropertyBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, 100.0, b[steam.KeyTemperature])
	assert.Equal(t, 101352.97, b[steam.KeyPressure])
}

func TestInvokeProvider(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())

	w := do(r, http.MethodPost, "/provider/pt", `[100000, 25]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var b steam.PropertyBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.InDelta(t, 25, b[steam.KeyTemperature], 1e-9)
	assert.InDelta(t, 104.92, b[steam.KeyEnthalpy], 0.01)

	tests := []struct {
		path, body string
		wantStatus int
		wantClass  string
	}{
		{"/provider/viscosity", `[1]`, http.StatusBadRequest, steam.ClassUnsupportedProperty},
		{"/provider/pt", `[1]`, http.StatusBadRequest, steam.ClassMalformedInput},
		{"/provider/pt", `["a", 1]`, http.StatusBadRequest, steam.ClassMalformedInput},
		{"/provider/pt", `[5e7, 426.85]`, http.StatusUnprocessableEntity, steam.ClassProvider},
	}
	for _, tt := range tests {
		w := do(r, http.MethodPost, tt.path, tt.body)
		assert.Equal(t, tt.wantStatus, w.Code, "%s %s", tt.path, tt.body)
		assert.Equal(t, tt.wantClass, decodeError(t, w).Class, "%s %s", tt.path, tt.body)
	}
}

func TestConfigHandlers(t *testing.T) {
	r, c := setupTest(t, iapws.NewProvider())

	tests := []struct {
		path, body string
		wantStatus int
	}{
		{"/precision", `4`, http.StatusCreated},
		{"/precision", `11`, http.StatusBadRequest},
		{"/precision", `"two"`, http.StatusBadRequest},
		{"/units", `"english"`, http.StatusCreated},
		{"/units", `"metric"`, http.StatusBadRequest},
		{"/provider-timeout", `2.5`, http.StatusCreated},
		{"/provider-timeout", `-1`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := do(r, http.MethodPut, tt.path, tt.body)
		assert.Equal(t, tt.wantStatus, w.Code, "PUT %s %s: %s", tt.path, tt.body, w.Body.String())
	}

	assert.Equal(t, 4, c.Precision())
	assert.Equal(t, "English", c.Units())
	assert.Equal(t, 2500*time.Millisecond, c.ProviderTimeout())

	w := do(r, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var raw config.RawFileConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, 4, *raw.Precision)
	assert.Equal(t, "English", *raw.Units)
	assert.Equal(t, 2.5, *raw.ProviderTimeoutSeconds)

	saved, err := config.NewFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, 4, saved.Precision())
}

func TestVersionAndMetrics(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())

	w := do(r, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `"`+version.Version+`"`, w.Body.String())

	do(r, http.MethodPost, "/evaluate", `{"kind":"Pressure","value":"1e5"}`)
	do(r, http.MethodPost, "/evaluate", `{"kind":"Pressure","value":"x"}`)

	w = do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `steamcalc_requests_total{class="none",endpoint="evaluate"} 1`)
	assert.Contains(t, body, `steamcalc_requests_total{class="InvalidNumericInput",endpoint="evaluate"} 1`)
	assert.Contains(t, body, `steamcalc_provider_duration_seconds_count{op="saturation-temperature"} 1`)
}

func TestCalculationEvents(t *testing.T) {
	r, _ := setupTest(t, iapws.NewProvider())
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	do(r, http.MethodPost, "/evaluate", `{"kind":"Pressure","value":"1e5"}`)
	do(r, http.MethodPost, "/evaluate", `{"kind":"Pressure","value":"1e9"}`)
	do(r, http.MethodPut, "/precision", `3`)

	ev := <-ch
	assert.Equal(t, events.CalculationCompleted, ev.Name)
	payload, err := events.DecodeAs[events.CalculationEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, "evaluate", payload.Endpoint)
	assert.Equal(t, []string{"Pressure"}, payload.Kinds)

	ev = <-ch
	assert.Equal(t, events.CalculationFailed, ev.Name)
	payload, err = events.DecodeAs[events.CalculationEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, steam.ClassProvider, payload.Class)

	ev = <-ch
	assert.Equal(t, events.ConfigChanged, ev.Name)
	changed, err := events.DecodeAs[events.ConfigChangedEvent](ev)
	require.NoError(t, err)
	assert.Equal(t, "precision", changed.Key)
	assert.Equal(t, "3", changed.Value)
}
