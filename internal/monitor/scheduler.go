package monitor

import (
	"context"
	"statcache/internal/monitor/interfaces"
	"statcache/internal/providers"
	"statcache/internal/storage"
	"statcache/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

const checkTimeout = 5 * time.Second

// Scheduler keeps the store connection state honest between requests: it
// pings a connected store, reconnects a configured one that is down, and
// publishes the connection gauge.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	conn    storage.ConnectorInterface
	metrics providers.MetricsProviderInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.Check()

	if !s.config.Monitor.Enabled || s.config.Monitor.Interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Store monitor disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(s.config.Monitor.Interval), s.Check)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Store monitor started, interval %s", s.config.Monitor.Interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Check runs one probe cycle. Overlapping cycles are serialized.
func (s *Scheduler) Check() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	before := s.conn.State()
	switch {
	case s.conn.IsConnected():
		s.conn.Probe(ctx)
	case s.config.Store.URI != "":
		s.conn.Connect(ctx)
	}

	after := s.conn.State()
	if before != after {
		s.logger.Infof(providers.TypeApp, "Store state changed: %s -> %s", before, after)
	}
	s.metrics.SetStoreConnected(s.conn.IsConnected())
}

func NewScheduler(config *structures.Config, logger providers.Logger, conn storage.ConnectorInterface, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		conn:    conn,
		metrics: metrics,
	}
}
