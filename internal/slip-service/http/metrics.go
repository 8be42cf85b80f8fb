package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// slipMetrics são os contadores do cupom expostos em /metrics
type slipMetrics struct {
	toggles     prometheus.Counter
	placements  *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	stakedCents prometheus.Counter
}

func newSlipMetrics(reg prometheus.Registerer) *slipMetrics {
	m := &slipMetrics{
		toggles:     prometheus.NewCounter(prometheus.CounterOpts{Name: "slip_selection_toggles_total", Help: "cliques de seleção no cupom"}),
		placements:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "slip_placements_total", Help: "apostas aceitas por modo"}, []string{"mode"}),
		rejections:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "slip_placement_rejections_total", Help: "apostas recusadas por motivo"}, []string{"reason"}),
		stakedCents: prometheus.NewCounter(prometheus.CounterOpts{Name: "slip_staked_cents_total", Help: "valor apostado em centavos"}),
	}
	if reg != nil {
		reg.MustRegister(m.toggles, m.placements, m.rejections, m.stakedCents)
	}
	return m
}
