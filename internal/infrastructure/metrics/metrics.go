// Package metrics holds the custom Prometheus metrics of the listings API.
// HTTP request metrics come from the echoprometheus middleware; this package
// only holds domain counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "imobilia"

// Prometheus records domain counters. It satisfies ports.Recorder.
type Prometheus struct {
	registrations    *prometheus.CounterVec
	logins           *prometheus.CounterVec
	listingsCreated  *prometheus.CounterVec
	listingMutations *prometheus.CounterVec
	imagesStored     prometheus.Counter
	imagesDeleted    *prometheus.CounterVec
}

// New registers every counter with reg. Registering twice on the same
// registry panics, so main builds exactly one.
func New(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		// ── Auth ──────────────────────────────────────────────────────────────
		// result: "ok", "exists", "invalid" or "error"
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts, by result.",
		}, []string{"result"}),
		// result: "ok", "not_found", "invalid" or "error"
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),

		// ── Listings ──────────────────────────────────────────────────────────
		// category: the listing category (e.g. "Casa")
		listingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_created_total",
			Help:      "Total number of listings created, by category.",
		}, []string{"category"}),
		// op: "update" or "delete"
		// result: "ok", "forbidden", "not_found", "invalid" or "error"
		listingMutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listing_mutations_total",
			Help:      "Total number of listing updates and deletions, by operation and result.",
		}, []string{"op", "result"}),

		// ── Images ────────────────────────────────────────────────────────────
		imagesStored: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_stored_total",
			Help:      "Total number of listing images stored.",
		}),
		// result: "ok" or "error"
		imagesDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_deleted_total",
			Help:      "Total number of listing image deletions, by result.",
		}, []string{"result"}),
	}
}

func (p *Prometheus) Registration(result string) {
	p.registrations.WithLabelValues(result).Inc()
}

func (p *Prometheus) Login(result string) {
	p.logins.WithLabelValues(result).Inc()
}

func (p *Prometheus) ListingCreated(category string) {
	p.listingsCreated.WithLabelValues(category).Inc()
}

func (p *Prometheus) ListingMutation(op, result string) {
	p.listingMutations.WithLabelValues(op, result).Inc()
}

func (p *Prometheus) ImageStored() {
	p.imagesStored.Inc()
}

func (p *Prometheus) ImageDeleted(result string) {
	p.imagesDeleted.WithLabelValues(result).Inc()
}
