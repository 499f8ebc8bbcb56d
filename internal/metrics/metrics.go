// Package metrics provides Prometheus instrumentation for the moderation
// bot. It exposes counters for message throughput and enforcement outcomes,
// a histogram for image-check latency, and gauges for deny-list sizes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MessagesChecked counts inbound messages by classification kind:
	// "text", "caption", "photo", "image_document", "other", "exempt".
	MessagesChecked = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_messages_checked_total",
		Help: "Total number of inbound messages classified and checked",
	}, []string{"kind"})

	// MatchesTotal counts deny-list matches by category: "text" or "image".
	MatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_matches_total",
		Help: "Total number of deny-list matches",
	}, []string{"category"})

	// EnforcementsTotal counts enforcement attempts by outcome:
	// "handled" (ban and delete both succeeded) or "partial".
	EnforcementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_enforcements_total",
		Help: "Total number of enforcement attempts by outcome",
	}, []string{"outcome"})

	// ImageCheckFailures counts image-pipeline failures by stage:
	// "download" or "ocr". Each failure means a message was let through.
	ImageCheckFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatguard_image_check_failures_total",
		Help: "Total number of failed image download or OCR attempts",
	}, []string{"stage"})

	// ExemptLookupFailures counts failed administrator-exemption lookups.
	ExemptLookupFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatguard_exempt_lookup_failures_total",
		Help: "Total number of failed chat-administrator lookups",
	})

	// ImageCheckDuration records download+OCR+match latency in seconds.
	ImageCheckDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatguard_image_check_duration_seconds",
		Help:    "Image download, OCR, and match latency in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})

	// DenyListSize tracks the current number of entries per category.
	DenyListSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chatguard_denylist_size",
		Help: "Current number of deny-list entries per category",
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(
		MessagesChecked,
		MatchesTotal,
		EnforcementsTotal,
		ImageCheckFailures,
		ExemptLookupFailures,
		ImageCheckDuration,
		DenyListSize,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
