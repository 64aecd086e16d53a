package care

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los contadores del motor de cuidados.
// Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	Actions     *prometheus.CounterVec
	SideEffects *prometheus.CounterVec
	Deaths      prometheus.Counter
	Retries     prometheus.Counter
}

// NewMetrics crea y registra las métricas en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petcare_actions_total",
				Help: "Total number of care actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		SideEffects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "petcare_side_effects_total",
				Help: "Total number of diseases caused by care side effects",
			},
			[]string{"disease"},
		),
		Deaths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petcare_deaths_total",
			Help: "Total number of pets that died",
		}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petcare_conflict_retries_total",
			Help: "Total number of optimistic concurrency retries",
		}),
	}

	reg.MustRegister(m.Actions, m.SideEffects, m.Deaths, m.Retries)
	return m
}

func (m *Metrics) action(action, outcome string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) sideEffect(disease string) {
	if m == nil {
		return
	}
	m.SideEffects.WithLabelValues(disease).Inc()
}

func (m *Metrics) death() {
	if m == nil {
		return
	}
	m.Deaths.Inc()
}

func (m *Metrics) retry() {
	if m == nil {
		return
	}
	m.Retries.Inc()
}
