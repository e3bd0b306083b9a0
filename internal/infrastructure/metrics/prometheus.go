// Package metrics expone las métricas del motor de contratos en formato Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appcontract "github.com/jhoicas/hospedagem-api/internal/application/contract"
	"github.com/jhoicas/hospedagem-api/internal/domain"
	"github.com/jhoicas/hospedagem-api/internal/domain/entity"
)

var _ appcontract.Recorder = (*Recorder)(nil)

const resultOK = "ok"

// Recorder implementa contract.Recorder sobre un registro propio (no el global).
type Recorder struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
}

// NewRecorder registra los colectores bajo el namespace indicado ("hospedagem" por defecto).
func NewRecorder(namespace string) *Recorder {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = "hospedagem"
	}
	namespace = strings.ReplaceAll(namespace, "-", "_")

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contract",
			Name:      "operations_total",
			Help:      "Operaciones sobre contratos por resultado.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "contract",
			Name:      "operation_duration_seconds",
			Help:      "Duración de las operaciones sobre contratos.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "contract",
			Name:      "status_transitions_total",
			Help:      "Transiciones de estado aplicadas.",
		}, []string{"from", "to"}),
	}
	r.registry.MustRegister(
		r.operations,
		r.duration,
		r.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOperation cuenta la operación con su resultado y registra la duración.
func (r *Recorder) ObserveOperation(op string, err error, elapsed time.Duration) {
	r.operations.WithLabelValues(op, Result(err)).Inc()
	r.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveTransition cuenta una transición aplicada.
func (r *Recorder) ObserveTransition(from, to entity.ContractStatus) {
	r.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// Handler endpoint HTTP de scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry para tests y colectores adicionales.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Result etiqueta acotada para err: "ok" o la clase del error de dominio.
func Result(err error) string {
	if err == nil {
		return resultOK
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrInvariant):
		return "invariant"
	case errors.Is(err, domain.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, domain.ErrIllegalEdit):
		return "illegal_edit"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrUnavailable):
		return "unavailable"
	}
	return "store_failure"
}
