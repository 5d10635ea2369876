package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/steamcalc/pkg/config"
	"github.com/charlie0129/steamcalc/pkg/events"
	"github.com/charlie0129/steamcalc/pkg/report"
	"github.com/charlie0129/steamcalc/pkg/steam"
	"github.com/charlie0129/steamcalc/pkg/version"
)

// CalculateRequest is the body of POST /calculate.
type CalculateRequest struct {
	State1 steam.StateRequest `json:"state1"`
	State2 steam.StateRequest `json:"state2"`
	// Precision overrides the configured number of decimals.
	Precision *int `json:"precision,omitempty"`
}

func newCalculator() *steam.Calculator {
	units, err := steam.ParseUnitSystem(conf.Units())
	if err != nil {
		logrus.Warnf("invalid units %q in config, using SI: %v", conf.Units(), err)
		units = steam.SI
	}
	return steam.NewCalculator(provider,
		steam.WithTimeout(conf.ProviderTimeout()),
		steam.WithDefaultUnits(units),
		steam.WithLogger(logrus.StandardLogger()),
	)
}

// statusFor maps an error class to an HTTP status code.
func statusFor(err error) int {
	switch steam.Classify(err) {
	case steam.ClassInvalidNumericInput, steam.ClassMalformedInput, steam.ClassUnsupportedProperty:
		return http.StatusBadRequest
	case steam.ClassProvider:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(err), steam.NewErrorReport(err))
}

// bindBody decodes the JSON body into v. Decoding errors that carry no
// class are malformed input.
func bindBody(c *gin.Context, v any) error {
	err := c.ShouldBindJSON(v)
	if err == nil {
		return nil
	}
	if steam.Classify(err) == steam.ClassUnknown {
		return pkgerrors.Wrapf(steam.ErrMalformedInput, "invalid request body: %v", err)
	}
	return err
}

func publishCalculation(endpoint string, kinds []string, start time.Time, err error) {
	stats.observeRequest(endpoint, err)

	sseHub.CalculationDone(events.CalculationEvent{
		Endpoint:  endpoint,
		Kinds:     kinds,
		LatencyMs: time.Since(start).Milliseconds(),
	}, steam.Classify(err), err)
}

func calculate(c *gin.Context) {
	start := time.Now()

	var req CalculateRequest
	if err := bindBody(c, &req); err != nil {
		publishCalculation("calculate", nil, start, err)
		respondError(c, err)
		return
	}

	precision := conf.Precision()
	if req.Precision != nil {
		precision = *req.Precision
		if precision < config.MinPrecision || precision > config.MaxPrecision {
			err := pkgerrors.Wrapf(steam.ErrMalformedInput, "precision must be between %d and %d, got %d",
				config.MinPrecision, config.MaxPrecision, precision)
			publishCalculation("calculate", nil, start, err)
			respondError(c, err)
			return
		}
	}

	kinds := []string{req.State1.Kind, req.State2.Kind}
	res, err := newCalculator().Calculate(c.Request.Context(), req.State1, req.State2)
	publishCalculation("calculate", kinds, start, err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, report.Rounded(res, precision))
}

func evaluate(c *gin.Context) {
	start := time.Now()

	var req steam.StateRequest
	if err := bindBody(c, &req); err != nil {
		publishCalculation("evaluate", nil, start, err)
		respondError(c, err)
		return
	}

	b, err := newCalculator().Evaluate(c.Request.Context(), req)
	publishCalculation("evaluate", []string{req.Kind}, start, err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, report.RoundBundle(b, conf.Precision()))
}

// invokeProvider answers a raw provider query, unrounded. Remote providers
// use it.
func invokeProvider(c *gin.Context) {
	start := time.Now()
	op := steam.Op(c.Param("op"))

	var args []float64
	if err := bindBody(c, &args); err != nil {
		publishCalculation(string(op), nil, start, err)
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if timeout := conf.ProviderTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	b, err := steam.Invoke(ctx, provider, op, args)
	publishCalculation(string(op), nil, start, err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, b)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func saveConfig(c *gin.Context, key string, value any) bool {
	if err := conf.Save(); err != nil {
		logrus.Errorf("saveConfig failed: %v", err)
		c.IndentedJSON(http.StatusInternalServerError, err.Error())
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return false
	}

	logrus.Infof("set %s to %v", key, value)
	sseHub.SettingChanged(key, fmt.Sprint(value))
	return true
}

func setPrecision(c *gin.Context) {
	var p int
	if err := c.BindJSON(&p); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		return
	}

	if p < config.MinPrecision || p > config.MaxPrecision {
		err := fmt.Errorf("precision must be between %d and %d, got %d", config.MinPrecision, config.MaxPrecision, p)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetPrecision(p)
	if !saveConfig(c, "precision", p) {
		return
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("results are rounded to %d decimals", p))
}

func setUnits(c *gin.Context) {
	var s string
	if err := c.BindJSON(&s); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		return
	}

	u, err := steam.ParseUnitSystem(s)
	if err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	conf.SetUnits(u.String())
	if !saveConfig(c, "units", u) {
		return
	}

	c.IndentedJSON(http.StatusCreated, fmt.Sprintf("default unit system is %s", u))
}

func setProviderTimeout(c *gin.Context) {
	var seconds float64
	if err := c.BindJSON(&seconds); err != nil {
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		return
	}

	if seconds < 0 {
		err := fmt.Errorf("provider timeout must not be negative, got %g", seconds)
		c.IndentedJSON(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d := time.Duration(seconds * float64(time.Second))
	conf.SetProviderTimeout(d)
	if !saveConfig(c, "provider timeout", d) {
		return
	}

	msg := fmt.Sprintf("provider timeout set to %s", d)
	if d == 0 {
		msg = "provider timeout disabled"
	}
	c.IndentedJSON(http.StatusCreated, msg)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func streamEvents(c *gin.Context) {
	ch := sseHub.SubscribeContext(c.Request.Context())

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ping", "connected")
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})
}
