// Package monitor samples the bridge's live state on a ticker: session
// counters, engine queue depth and Go runtime stats. Samples go to the
// status file, the log and, when a connection is live, to InfluxDB.
package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/handlers"
	"github.com/Cmooon-dev/gleaflet/internal/influx"
	"github.com/Cmooon-dev/gleaflet/internal/logging"
	"github.com/Cmooon-dev/gleaflet/internal/session"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Dependencies holds all dependencies for the monitor service.
// InfluxManager may be nil when metrics shipping is disabled.
type Dependencies struct {
	LogManager     *logging.SlogManager
	Session        *session.Context
	HandlerManager *handlers.Manager
	InfluxManager  *influx.Manager
	StatusDir      string
}

// Status is one sample of the bridge's live state
type Status struct {
	Time           time.Time `json:"time"`
	Scene          string    `json:"scene"`
	Engine         string    `json:"engine"`
	Surface        string    `json:"surface"`
	UptimeSeconds  float64   `json:"uptimeSeconds"`
	Commands       int       `json:"commands"`
	Markers        int       `json:"markers"`
	Polylines      int       `json:"polylines"`
	EngineQueueLen int       `json:"engineQueueLen"`
	Goroutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heapAllocBytes"`
}

// Service samples and publishes bridge status in the background.
type Service struct {
	deps Dependencies

	mu      sync.RWMutex
	running bool
	stop    chan struct{}
}

// NewService builds a stopped monitor around its dependencies.
func NewService(deps Dependencies) *Service {
	return &Service{deps: deps}
}

// IsRunning reports whether the sampling goroutine is alive.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetProgramStatus takes one sample of the bridge.
func (s *Service) GetProgramStatus() Status {
	info := s.deps.Session.Info()
	commands, markers, polylines := s.deps.Session.Counters()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	status := Status{
		Time:           time.Now(),
		Scene:          info.SceneName,
		Engine:         info.EngineKind,
		Surface:        info.Surface,
		Commands:       commands,
		Markers:        markers,
		Polylines:      polylines,
		EngineQueueLen: s.deps.HandlerManager.QueueLen(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
	}
	if !info.StartedAt.IsZero() {
		status.UptimeSeconds = time.Since(info.StartedAt).Seconds()
	}

	return status
}

// publish logs a sample and ships it to InfluxDB when a sink is live.
func (s *Service) publish(status Status) {
	logger := s.deps.LogManager.Logger()
	logger.Debug("Bridge status",
		"commands", status.Commands,
		"markers", status.Markers,
		"polylines", status.Polylines,
		"queueLen", status.EngineQueueLen,
		"goroutines", status.Goroutines)

	im := s.deps.InfluxManager
	if im == nil || !im.Ready() {
		return
	}

	tags := map[string]string{
		"scene":  status.Scene,
		"engine": status.Engine,
	}

	perf := influxdb2.NewPoint("bridge_performance", tags, map[string]any{
		"goroutines":     status.Goroutines,
		"heapAllocBytes": int64(status.HeapAllocBytes),
		"engineQueueLen": status.EngineQueueLen,
		"uptimeSeconds":  status.UptimeSeconds,
	}, status.Time)
	if err := im.WritePoint(context.Background(), "bridge_performance", perf); err != nil {
		logger.Error("Error writing performance point", "error", err)
	}

	stats := influxdb2.NewPoint("scene_stats", tags, map[string]any{
		"commands":  status.Commands,
		"markers":   status.Markers,
		"polylines": status.Polylines,
	}, status.Time)
	if err := im.WritePoint(context.Background(), "scene_stats", stats); err != nil {
		logger.Error("Error writing scene stats point", "error", err)
	}
}

// Start launches the sampling goroutine at the given interval.
// Calling Start on a running service is a no-op.
func (s *Service) Start(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.running = true
	s.stop = make(chan struct{})
	go s.run(interval, s.stop)
	return nil
}

func (s *Service) run(interval time.Duration, stop <-chan struct{}) {
	defer func() {
		s.mu.Lock()
		// A restart may already own the flag; only clear our own
		// generation.
		if s.stop == stop {
			s.running = false
		}
		s.mu.Unlock()
	}()

	logger := s.deps.LogManager.Logger()
	logger.Debug("Status monitor started", "interval", interval.String())

	statusFile, err := os.Create(filepath.Join(s.deps.StatusDir, "status.json"))
	if err != nil {
		logger.Error("Error creating status file", "error", err)
		statusFile = nil
	} else {
		defer statusFile.Close()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// Nothing worth sampling until a run begins
			if s.deps.Session.Info().StartedAt.IsZero() {
				continue
			}
			status := s.GetProgramStatus()
			writeStatusFile(statusFile, status)
			s.publish(status)
		}
	}
}

// writeStatusFile rewrites the file in place so readers always see a
// complete document.
func writeStatusFile(f *os.File, status Status) {
	if f == nil {
		return
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return
	}
	f.Truncate(0)
	f.Seek(0, 0)
	f.Write(append(data, '\n'))
}

// Stop ends the sampling goroutine. Safe to call on a stopped service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		close(s.stop)
		s.running = false
	}
}
