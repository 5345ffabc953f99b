// Copyright (c) 2026 dobashi.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package taskmanager schedules the engine's periodic background work
// (currently just resyncing Prometheus board/topic gauges) on top of
// go-co-op/gocron.
package taskmanager

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/dobashi/itaban/internal/bbs"
	"github.com/dobashi/itaban/internal/metrics"
	"github.com/dobashi/itaban/pkg/log"
)

// Manager wraps a gocron scheduler running the engine's background
// jobs.
type Manager struct {
	scheduler gocron.Scheduler
}

// New builds an idle scheduler. Call Start to begin running jobs
// registered on it.
func New() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("taskmanager: creating scheduler: %w", err)
	}
	return &Manager{scheduler: s}, nil
}

// RegisterMetricsRefresh schedules met.RefreshBoardGauges to run every
// interval against registry. A zero or negative interval disables the
// job entirely.
func (m *Manager) RegisterMetricsRefresh(registry *bbs.Bbs, met *metrics.Metrics, interval time.Duration) error {
	if interval <= 0 {
		log.Info("taskmanager: metrics refresh disabled (non-positive interval)")
		return nil
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			met.RefreshBoardGauges(registry)
		}),
	)
	if err != nil {
		return fmt.Errorf("taskmanager: registering metrics refresh job: %w", err)
	}
	log.Infof("taskmanager: refreshing board metrics every %s", interval)
	return nil
}

// Start begins running every registered job.
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Shutdown stops the scheduler, waiting for in-flight jobs to finish.
func (m *Manager) Shutdown() error {
	return m.scheduler.Shutdown()
}
