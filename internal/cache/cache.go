package cache

import (
	"log/slog"
	"sync"
	"time"
)

// Store is what the Manager needs from a cache: expiry sweeping and a size
// readout for health reporting.
type Store interface {
	CleanExpired() int
	Size() int
}

// Manager sweeps expired entries out of the derived-data caches (trip stats,
// rendered PDF) on a shared ticker and exposes their sizes for the readiness
// endpoint.
type Manager struct {
	mu     sync.Mutex
	stores map[string]Store

	logger      *slog.Logger
	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// NewManager creates a manager. A nil logger disables sweep logging.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		stores:      make(map[string]Store),
		logger:      logger,
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a named cache. The name shows up in the readiness report.
func (m *Manager) Register(name string, store Store) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores[name] = store
}

// Sizes reports the current entry count of every registered cache.
func (m *Manager) Sizes() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	sizes := make(map[string]int, len(m.stores))
	for name, store := range m.stores {
		sizes[name] = store.Size()
	}
	return sizes
}

// StartCleanup begins periodic sweeping of all registered caches.
func (m *Manager) StartCleanup(interval time.Duration) {
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, store := range m.stores {
		if cleaned := store.CleanExpired(); cleaned > 0 && m.logger != nil {
			m.logger.Debug("Swept expired cache entries",
				"cache", name, "removed", cleaned)
		}
	}
}

// Stop halts the sweep routine and waits for it to exit.
func (m *Manager) Stop() {
	if m.stopCleanup != nil {
		close(m.stopCleanup)
		<-m.cleanupDone
	}
}
