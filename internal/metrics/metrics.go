// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics exposes the Prometheus counters of the request pipeline.
//
// A nil *Recorder is valid and records nothing, so components can be built
// without metrics in tests or when /metrics is disabled.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "biodigestor"

// Pipeline stages reported with every decision. StageHandler counts
// requests the guard allowed but a handler refused because it targets a
// different DNI, so each request adds at most one authorization allow.
const (
	StageAuthentication = "authentication"
	StageAuthorization  = "authorization"
	StageHandler        = "handler"
)

// OutcomeError labels a stage that could not reach a decision because a
// backend failed. The allow, deny and redirect labels come from
// auth.Outcome.
const OutcomeError = "error"

// Login results.
const (
	LoginSuccess   = "success"
	LoginInvalid   = "invalid"
	LoginThrottled = "throttled"
	LoginError     = "error"
)

// Recorder owns the application collectors and the registry they are
// exposed from.
type Recorder struct {
	registry *prometheus.Registry

	decisions       *prometheus.CounterVec
	logins          *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder registers the collectors on a fresh registry together with
// the Go runtime and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newRecorder(registry)
}

func newRecorder(registry *prometheus.Registry) *Recorder {
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,

		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authorization_decisions_total",
			Help:      "Decisions taken by the authentication gate and the ownership guard",
		}, []string{"stage", "outcome", "reason"}),

		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

// ObserveDecision counts one pipeline decision. reason is empty for
// decisions that carry none.
func (r *Recorder) ObserveDecision(stage, outcome, reason string) {
	if r == nil {
		return
	}
	r.decisions.WithLabelValues(stage, outcome, reason).Inc()
}

// ObserveLogin counts one login attempt.
func (r *Recorder) ObserveLogin(result string) {
	if r == nil {
		return
	}
	r.logins.WithLabelValues(result).Inc()
}

// ObserveRequest records the duration of a served request.
func (r *Recorder) ObserveRequest(method string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
