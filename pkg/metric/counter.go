package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// RequestsName is the counter of backend requests by operation and result.
	RequestsName = "romenu_backend_requests_total"

	// ActivationsName is the counter of menu bar link activations by group kind.
	ActivationsName = "romenu_menu_activations_total"

	// Result label values.
	ResultSuccess = "success"
	ResultFailure = "failure"
)

type IncrementalCounter interface {
	Increment(val ...string)
}

type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// Result maps an outcome to its result label value.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) IncrementalCounter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

// NewRequestCounter registers the backend request counter with reg.
// Increment takes the operation ("probe", "login", "invoke", "get") and the result.
func NewRequestCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, RequestsName, "Backend requests by operation and result.", "operation", "result")
}

// NewActivationCounter registers the menu activation counter with reg.
// Increment takes the group kind, "main" or "menu", never a backend title.
func NewActivationCounter(reg prometheus.Registerer) IncrementalCounter {
	return NewCounterWithRegistry(reg, ActivationsName, "Menu bar link activations by group kind.", "group")
}

// GetHandlerForRegistry returns an HTTP handler for serving Prometheus metrics from a custom registry.
func GetHandlerForRegistry(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
