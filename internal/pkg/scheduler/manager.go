package scheduler

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/hireprivate/staffboard/internal/pkg/cache"
	"github.com/hireprivate/staffboard/internal/pkg/env"
	"github.com/hireprivate/staffboard/internal/pkg/metrics/counter"
	"github.com/hireprivate/staffboard/internal/pkg/subscription"
)

const renewalLockKey = "scheduler:renewals:lock"
const renewalLockTTL = 30 * time.Minute

// Buffered job view counters are flushed to the database on this cadence.
const counterFlushInterval = 5 * time.Minute

// Manager runs the periodic subscription-renewal pass and the counter flush
type Manager struct {
	service       *subscription.Service
	renewalTicker *time.Ticker
	counterTicker *time.Ticker
	stopCh        chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
	running       bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// Initialize sets up the global scheduler manager with the given service.
// Must be called once at startup before GetManager.
func Initialize(service *subscription.Service) *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{
			service: service,
			stopCh:  make(chan struct{}),
		}
	})
	return globalManager
}

// GetManager returns the global scheduler manager
func GetManager() *Manager {
	if globalManager == nil {
		panic("Scheduler manager not initialized. Call Initialize first.")
	}
	return globalManager
}

// Start starts the background renewal worker
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Scheduler] Starting renewal worker")

	interval := 24 * time.Hour // Default: one pass per day
	if raw := env.GetEnv("RENEWAL_CHECK_INTERVAL_HOURS", ""); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			interval = time.Duration(hours) * time.Hour
		}
	}

	m.renewalTicker = time.NewTicker(interval)
	m.wg.Add(1)
	go m.renewalWorker()

	m.counterTicker = time.NewTicker(counterFlushInterval)
	m.wg.Add(1)
	go m.counterWorker()

	log.Info("[Scheduler] Started successfully")
}

// Stop stops the background renewal worker
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Scheduler] Stopping renewal worker...")

	if m.renewalTicker != nil {
		m.renewalTicker.Stop()
	}
	if m.counterTicker != nil {
		m.counterTicker.Stop()
	}
	close(m.stopCh)
	m.wg.Wait()
	m.running = false

	log.Info("[Scheduler] Stopped")
}

func (m *Manager) renewalWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.renewalTicker.C:
			m.RunRenewalPass()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) counterWorker() {
	defer m.wg.Done()

	for {
		select {
		case <-m.counterTicker.C:
			if err := counter.FlushAll(); err != nil {
				log.Warnf("[Scheduler] Counter flush failed: %v", err)
			}
		case <-m.stopCh:
			// Final drain so buffered views survive a clean shutdown.
			if err := counter.FlushAll(); err != nil {
				log.Warnf("[Scheduler] Final counter flush failed: %v", err)
			}
			return
		}
	}
}

// RunRenewalPass executes one renewal batch, guarded by a redis lock so only
// one node performs the pass per interval.
func (m *Manager) RunRenewalPass() {
	acquired, err := cache.AcquireLock(renewalLockKey, renewalLockTTL)
	if err != nil {
		log.Warnf("[Scheduler] Could not acquire renewal lock: %v", err)
		return
	}
	if !acquired {
		log.Info("[Scheduler] Renewal pass already running elsewhere, skipping")
		return
	}
	defer func() {
		if err := cache.ReleaseLock(renewalLockKey); err != nil {
			log.Warnf("[Scheduler] Could not release renewal lock: %v", err)
		}
	}()

	report, err := m.service.ProcessSubscriptionRenewals(context.Background())
	if err != nil {
		log.Errorf("[Scheduler] Renewal pass failed: %v", err)
		return
	}
	log.Infof("[Scheduler] Renewal pass done: %d renewed, %d failed", report.Renewed, report.Failed)
}
