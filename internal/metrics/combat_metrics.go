// Package metrics exports encounter counters to Prometheus by listening to
// the event stream.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/KirkDiggler/dungeon-combat/internal/events"
)

// RoundBuckets covers short skirmishes up to the default round limit
var RoundBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 34, 50}

// Action results
const (
	ResultUsed    = "used"
	ResultBlocked = "blocked"
	ResultPassive = "passive"
)

// CombatMetrics collects encounter metrics
type CombatMetrics struct {
	// EncountersTotal counts finished encounters by end reason
	EncountersTotal *prometheus.CounterVec

	// ActionsTotal counts trait attempts by result
	ActionsTotal *prometheus.CounterVec

	// EffectsTotal counts effect dispatches by kind and success
	EffectsTotal *prometheus.CounterVec

	// EncounterRounds observes the round an encounter ended in
	EncounterRounds prometheus.Histogram
}

// NewCombatMetrics registers the collectors on registerer
func NewCombatMetrics(namespace string, registerer prometheus.Registerer) *CombatMetrics {
	factory := promauto.With(registerer)

	return &CombatMetrics{
		EncountersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "encounters_total",
				Help:      "Total number of finished encounters by end reason",
			},
			[]string{"reason"},
		),

		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "actions_total",
				Help:      "Total number of trait attempts by result (used/blocked/passive)",
			},
			[]string{"result"},
		),

		EffectsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "effects_total",
				Help:      "Total number of effect dispatches by kind and success",
			},
			[]string{"kind", "success"},
		),

		EncounterRounds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "combat",
				Name:      "encounter_rounds",
				Help:      "Round in which encounters ended",
				Buckets:   RoundBuckets,
			},
		),
	}
}

// ID implements events.Listener
func (m *CombatMetrics) ID() string {
	return "metrics"
}

// Priority implements events.Listener
func (m *CombatMetrics) Priority() int {
	return events.PriorityMetrics
}

// HandleEvent implements events.Listener
func (m *CombatMetrics) HandleEvent(event events.Event) error {
	switch event.Type {
	case events.TypeAbility:
		if event.Ability == nil {
			return nil
		}
		switch {
		case !event.Ability.Success:
			m.ActionsTotal.WithLabelValues(ResultBlocked).Inc()
		case event.Ability.Passive:
			m.ActionsTotal.WithLabelValues(ResultPassive).Inc()
		default:
			m.ActionsTotal.WithLabelValues(ResultUsed).Inc()
		}

	case events.TypeEffect:
		if event.Effect == nil {
			return nil
		}
		m.EffectsTotal.WithLabelValues(event.Effect.Kind, strconv.FormatBool(event.Effect.Success)).Inc()

	case events.TypePhaseChange:
		if event.Subtype != events.SubtypeCombatEnd || event.Phase == nil {
			return nil
		}
		m.EncountersTotal.WithLabelValues(event.Phase.Reason).Inc()
		m.EncounterRounds.Observe(float64(event.Round))
	}
	return nil
}
