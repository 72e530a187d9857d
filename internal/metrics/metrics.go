// Package metrics exposes prometheus counters for the referral program's
// business events and the /metrics scrape handler.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application counters. A fresh registry is used so
// tests can construct instances without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	leadsSubmitted    prometheus.Counter
	statusTransitions *prometheus.CounterVec
	rewardsCreated    *prometheus.CounterVec
	paymentsProcessed *prometheus.CounterVec
}

// New constructs and registers all counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		leadsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "referral_leads_submitted_total",
			Help: "Leads submitted by partners.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_lead_status_transitions_total",
			Help: "Admin lead status updates by target status.",
		}, []string{"status"}),
		rewardsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_rewards_created_total",
			Help: "Reward records created by kind (percentage or voucher).",
		}, []string{"kind"}),
		paymentsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "referral_payment_requests_processed_total",
			Help: "Payment requests processed by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.leadsSubmitted, m.statusTransitions, m.rewardsCreated, m.paymentsProcessed)
	return m
}

// LeadSubmitted counts a partner lead submission.
func (m *Metrics) LeadSubmitted() { m.leadsSubmitted.Inc() }

// StatusTransition counts an admin lead status update.
func (m *Metrics) StatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// RewardCreated counts a commission or voucher record creation.
func (m *Metrics) RewardCreated(kind string) {
	m.rewardsCreated.WithLabelValues(kind).Inc()
}

// PaymentProcessed counts a processed payment request by outcome
// (completed or rejected).
func (m *Metrics) PaymentProcessed(outcome string) {
	m.paymentsProcessed.WithLabelValues(outcome).Inc()
}

// Handler returns the prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
