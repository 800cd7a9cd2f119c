package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmt_http_requests_total",
		Help: "HTTP requests handled by the relayer, by path and status code.",
	}, []string{"path", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pmt_http_request_duration_seconds",
		Help:    "HTTP request latency, by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	mintSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmt_mint_submissions_total",
		Help: "Mint submissions, by outcome (submitted or rejected).",
	}, []string{"outcome"})

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pmt_validation_failures_total",
		Help: "Mint validation failures, by client-facing error code.",
	}, []string{"code"})

	rateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pmt_rate_limited_requests_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})
)
