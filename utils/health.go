package utils

import (
	"context"
	"sync"
	"time"
)

// Pinger checks one dependency.
type Pinger func(ctx context.Context) error

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthMonitor keeps the latest result of pinging every registered dependency.
type HealthMonitor struct {
	mu      sync.RWMutex
	pingers map[string]Pinger
	current HealthStatus
}

func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{pingers: make(map[string]Pinger)}
}

// Register adds a named dependency. Call before Start.
func (h *HealthMonitor) Register(name string, p Pinger) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pingers[name] = p
}

// Check pings every dependency now and stores the snapshot.
func (h *HealthMonitor) Check(ctx context.Context) HealthStatus {
	h.mu.RLock()
	pingers := make(map[string]Pinger, len(h.pingers))
	for name, p := range h.pingers {
		pingers[name] = p
	}
	h.mu.RUnlock()

	status := HealthStatus{Healthy: true, Services: make(map[string]bool, len(pingers)), CheckedAt: time.Now().UTC()}
	for name, p := range pingers {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		ok := p(pctx) == nil
		cancel()
		status.Services[name] = ok
		status.Healthy = status.Healthy && ok
	}

	h.mu.Lock()
	h.current = status
	h.mu.Unlock()
	return status
}

// Status returns the latest stored health snapshot.
func (h *HealthMonitor) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Start performs periodic health checks until ctx is done.
func (h *HealthMonitor) Start(ctx context.Context, interval time.Duration) {
	h.Check(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Check(ctx)
			}
		}
	}()
}
