package daemon

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlie0129/steamcalc/pkg/steam"
)

type metrics struct {
	registry      *prometheus.Registry
	calculations  *prometheus.CounterVec
	providerCalls *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "steamcalc_requests_total",
				Help: "Total number of calculation requests, by endpoint and error class",
			},
			[]string{"endpoint", "class"},
		),
		providerCalls: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "steamcalc_provider_duration_seconds",
				Help:    "Duration of steam table provider queries",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(m.calculations, m.providerCalls)
	return m
}

func (m *metrics) observeRequest(endpoint string, err error) {
	class := steam.Classify(err)
	if class == "" {
		class = "none"
	}
	m.calculations.WithLabelValues(endpoint, class).Inc()
}

func (m *metrics) handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// timedProvider records the duration of every query of the wrapped provider.
type timedProvider struct {
	steam.Provider
	hist *prometheus.HistogramVec
}

func (m *metrics) instrument(p steam.Provider) steam.Provider {
	return &timedProvider{Provider: p, hist: m.providerCalls}
}

func (p *timedProvider) observe(op steam.Op, start time.Time) {
	p.hist.WithLabelValues(string(op)).Observe(time.Since(start).Seconds())
}

func (p *timedProvider) SaturationTemperature(ctx context.Context, pressure float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpSaturationTemperature, time.Now())
	return p.Provider.SaturationTemperature(ctx, pressure)
}

func (p *timedProvider) PropertiesPT(ctx context.Context, pressure, t float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpPT, time.Now())
	return p.Provider.PropertiesPT(ctx, pressure, t)
}

func (p *timedProvider) PropertiesPH(ctx context.Context, pressure, h float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpPH, time.Now())
	return p.Provider.PropertiesPH(ctx, pressure, h)
}

func (p *timedProvider) PropertiesPS(ctx context.Context, pressure, s float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpPS, time.Now())
	return p.Provider.PropertiesPS(ctx, pressure, s)
}

func (p *timedProvider) PropertiesPV(ctx context.Context, pressure, v float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpPV, time.Now())
	return p.Provider.PropertiesPV(ctx, pressure, v)
}

func (p *timedProvider) QualityPH(ctx context.Context, pressure, h float64) (steam.PropertyBundle, error) {
	defer p.observe(steam.OpQualityPH, time.Now())
	return p.Provider.QualityPH(ctx, pressure, h)
}
