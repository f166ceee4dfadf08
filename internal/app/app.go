package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/clinic-records/config"
	"github.com/jwalitptl/clinic-records/internal/model"
	"github.com/jwalitptl/clinic-records/internal/repository/memory"
	"github.com/jwalitptl/clinic-records/internal/service/audit"
	"github.com/jwalitptl/clinic-records/internal/service/dashboard"
	"github.com/jwalitptl/clinic-records/internal/service/navigation"
	"github.com/jwalitptl/clinic-records/internal/service/rbac"
	"github.com/jwalitptl/clinic-records/internal/service/records"
	"github.com/jwalitptl/clinic-records/internal/service/session"
	"github.com/jwalitptl/clinic-records/pkg/event"
	"github.com/jwalitptl/clinic-records/pkg/logger"
	"github.com/jwalitptl/clinic-records/pkg/metrics"
	"github.com/jwalitptl/clinic-records/pkg/validator"
)

// App wires the record store, access controller, router and session
// lifecycle together. It replaces process-wide globals: everything a screen
// controller needs hangs off one value created by New and released by Close.
type App struct {
	cfg      *config.Config
	logger   *logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	store     *memory.Store
	bus       *event.Bus
	auditor   *audit.Service
	records   *records.Service
	access    *rbac.Service
	sessions  *session.Manager
	router    *navigation.Router
	dashboard *dashboard.Service
}

type Option func(*options)

type options struct {
	clock func() time.Time
}

// WithClock fixes the clock used for audit timestamps, defaults and the
// dashboard.
func WithClock(fn func() time.Time) Option {
	return func(o *options) {
		o.clock = fn
	}
}

// New builds an App from cfg. A nil registry gets a private one.
func New(cfg *config.Config, log *logger.Logger, registry *prometheus.Registry, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.Nop()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	o := options{clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}

	auditedKinds, err := audit.ParseKinds(cfg.Audit.AuditedKinds)
	if err != nil {
		return nil, fmt.Errorf("invalid audit config: %w", err)
	}

	m := metrics.NewMetrics(cfg.Metrics.Namespace, registry)

	store := memory.NewStore(memory.WithClock(o.clock))
	if cfg.Seed.Enabled {
		if err := store.Load(memory.SeedEntities(), memory.SeedAudit()); err != nil {
			return nil, fmt.Errorf("failed to load seed data: %w", err)
		}
	}

	bus := event.NewBus(log)
	bus.Subscribe(event.Wildcard, func(ctx context.Context, evt event.Event) error {
		log.Debug("Change published",
			"event_type", string(evt.Type),
			"entity_id", evt.EntityID,
			"changed_fields", len(evt.Changes),
		)
		return nil
	})

	auditor := audit.NewService(store, auditedKinds, log, m)
	recordSvc := records.NewService(store, auditor, validator.New(), bus, log, m)
	sessions := session.NewManager(session.Config{
		IdleTimeout:     cfg.Session.IdleTimeout,
		CleanupInterval: cfg.Session.CleanupInterval,
		PatientID:       cfg.Session.PatientID,
	}, log, m)

	a := &App{
		cfg:       cfg,
		logger:    log,
		registry:  registry,
		metrics:   m,
		store:     store,
		bus:       bus,
		auditor:   auditor,
		records:   recordSvc,
		access:    rbac.NewService(log, m),
		sessions:  sessions,
		router:    navigation.NewRouter(recordSvc, sessions, log, m),
		dashboard: dashboard.NewService(recordSvc, auditor, o.clock),
	}

	log.Info("Application ready",
		"seeded", cfg.Seed.Enabled,
		"audited_kinds", cfg.Audit.AuditedKinds,
	)
	return a, nil
}

// Close ends any open session. The store contents are discarded with the App.
func (a *App) Close() error {
	if _, ok := a.sessions.End(); ok {
		a.router.Navigate(context.Background(), model.ScreenLogin, nil)
	}
	a.logger.Info("Application closed")
	return nil
}

// Subscribe registers a change-feed handler for committed mutations.
func (a *App) Subscribe(eventType event.EventType, h event.Handler) {
	a.bus.Subscribe(eventType, h)
}

// Registry exposes the metrics registry for scraping or dumping.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

func (a *App) Config() *config.Config {
	return a.cfg
}
