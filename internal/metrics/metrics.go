// Package metrics exposes game counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/myrjola/gaslight/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game counters. A nil *Metrics records nothing so that callers can leave it out.
type Metrics struct {
	registry     *prometheus.Registry
	checks       *prometheus.CounterVec
	autoSucceeds *prometheus.CounterVec
	encounters   *prometheus.CounterVec
	deductions   *prometheus.CounterVec
	saves        *prometheus.CounterVec
	cases        prometheus.Counter
}

// New registers the game counters in a fresh registry together with the Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gaslight_checks_total",
			Help: "Faculty checks rolled, partitioned by faculty and outcome tier.",
		}, []string{"faculty", "tier"}),
		autoSucceeds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gaslight_ability_auto_succeeds_total",
			Help: "Checks skipped because an archetype ability forced a critical.",
		}, []string{"faculty"}),
		encounters: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gaslight_encounters_total",
			Help: "Encounter lifecycle events: started, reaction_failed and completed.",
		}, []string{"event"}),
		deductions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gaslight_deductions_total",
			Help: "Deductions formed on the evidence board, partitioned by red herring taint.",
		}, []string{"red_herring"}),
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gaslight_saves_total",
			Help: "Save slot operations by kind and result.",
		}, []string{"op", "result"}),
		cases: factory.NewCounter(prometheus.CounterOpts{
			Name: "gaslight_cases_completed_total",
			Help: "Cases brought to completion.",
		}),
	}
}

func (m *Metrics) Check(faculty models.Faculty, tier models.Tier) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(string(faculty), string(tier)).Inc()
}

func (m *Metrics) AutoSucceed(faculty models.Faculty) {
	if m == nil {
		return
	}
	m.autoSucceeds.WithLabelValues(string(faculty)).Inc()
}

func (m *Metrics) Encounter(event string) {
	if m == nil {
		return
	}
	m.encounters.WithLabelValues(event).Inc()
}

func (m *Metrics) Deduction(isRedHerring bool) {
	if m == nil {
		return
	}
	m.deductions.WithLabelValues(strconv.FormatBool(isRedHerring)).Inc()
}

// Save counts a save slot operation. err decides the result label.
func (m *Metrics) Save(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(op, result).Inc()
}

func (m *Metrics) CaseCompleted() {
	if m == nil {
		return
	}
	m.cases.Inc()
}

// Gatherer exposes the registry, e.g., for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
