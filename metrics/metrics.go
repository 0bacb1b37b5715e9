package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfind_items_submitted_total",
		Help: "Item reports created, by item type.",
	}, []string{"item_type"})

	ItemsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfind_items_resolved_total",
		Help: "Lost items marked as found by their reporter.",
	})

	ItemsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfind_items_purged_total",
		Help: "Stale items removed by the retention job.",
	})

	UploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusfind_upload_failures_total",
		Help: "Image uploads that failed and aborted a submission.",
	})

	MatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusfind_match_requests_total",
		Help: "Match hook calls, by outcome (match, no_match, error).",
	}, []string{"outcome"})
)
