// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics declares the engine's Prometheus instrumentation.
// Every method is nil-safe so a server run without metrics enabled can
// pass a nil *Metrics around without branching at every call site.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dobashi/itaban/internal/bbs"
)

// Metrics holds every gauge/counter the engine exports.
type Metrics struct {
	boards         prometheus.Gauge
	topics         *prometheus.GaugeVec
	posts          *prometheus.CounterVec
	invalidations  *prometheus.CounterVec
	cacheResponses *prometheus.CounterVec
}

// New builds and registers the engine's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		boards: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "itaban_boards",
			Help: "Number of boards currently loaded.",
		}),
		topics: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "itaban_topics",
			Help: "Number of threads currently held by a board.",
		}, []string{"board"}),
		posts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itaban_posts_total",
			Help: "Total posts accepted, by board.",
		}, []string{"board"}),
		invalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itaban_subject_txt_invalidations_total",
			Help: "Total times a board's subject.txt cache was invalidated.",
		}, []string{"board"}),
		cacheResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itaban_cache_responses_total",
			Help: "HTTP cache-validated responses, by resulting status code.",
		}, []string{"status"}),
	}
	reg.MustRegister(m.boards, m.topics, m.posts, m.invalidations, m.cacheResponses)
	return m
}

// RecordPost records one accepted post on board, and the subject.txt
// invalidation it always causes.
func (m *Metrics) RecordPost(board string) {
	if m == nil {
		return
	}
	m.posts.WithLabelValues(board).Inc()
	m.invalidations.WithLabelValues(board).Inc()
}

// RecordCacheResponse records one httpcache.Respond outcome.
func (m *Metrics) RecordCacheResponse(status int) {
	if m == nil {
		return
	}
	m.cacheResponses.WithLabelValues(strconv.Itoa(status)).Inc()
}

// RefreshBoardGauges resyncs the board/topic-count gauges against the
// registry's current state. Intended to run periodically from
// internal/taskmanager rather than after every request.
func (m *Metrics) RefreshBoardGauges(registry *bbs.Bbs) {
	if m == nil {
		return
	}
	boards := registry.Boards()
	m.boards.Set(float64(len(boards)))
	for _, board := range boards {
		m.topics.WithLabelValues(board.Id()).Set(float64(board.TopicCount()))
	}
}
