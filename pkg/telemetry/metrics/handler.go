package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the /metrics handler for the collector's registry.
// A nil or disabled collector serves 404.
func (c *Collector) Handler() http.Handler {
	if !c.active() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// RegisterRuntimeCollectors adds the Go runtime and process collectors,
// which the server exposes alongside scout's own metrics.
func (c *Collector) RegisterRuntimeCollectors() error {
	if !c.active() {
		return nil
	}
	for _, rc := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := c.registry.Register(rc); err != nil {
			return err
		}
	}
	return nil
}
