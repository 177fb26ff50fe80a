package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	delegation "chancery/contexts/correspondence/delegation-service"
	delegationpostgres "chancery/contexts/correspondence/delegation-service/adapters/postgres"
	delegationworkers "chancery/contexts/correspondence/delegation-service/application/workers"
	workflow "chancery/contexts/correspondence/workflow-service"
	"chancery/contexts/correspondence/workflow-service/adapters/local"
	workflowpostgres "chancery/contexts/correspondence/workflow-service/adapters/postgres"
	workflowworkers "chancery/contexts/correspondence/workflow-service/application/workers"
	profile "chancery/contexts/identity-access/profile-service"
	notifications "chancery/contexts/notifications/notification-service"
	notificationpostgres "chancery/contexts/notifications/notification-service/adapters/postgres"
	"chancery/contexts/notifications/notification-service/adapters/push"
	notificationworkers "chancery/contexts/notifications/notification-service/application/workers"
	"chancery/internal/platform/config"
	"chancery/internal/platform/db"
	"chancery/internal/platform/httpserver"
	"chancery/internal/platform/messaging"
	"chancery/internal/shared/keylock"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres         *db.Postgres
	correspondence   workflowworkers.OutboxRelay
	delegationEvents delegationworkers.OutboxRelay
	relayEnabled     bool
	pollInterval     time.Duration
	logger           *slog.Logger
}

// BuildAPI wires the serving process. With POSTGRES_DSN set all four
// modules run on postgres adapters; without it the process runs on the
// seeded in-memory stores, which is the development and test mode.
func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	locker := keylock.NewRegistry()
	bus := messaging.NewBus(logger)

	profiles := profile.NewInMemoryModule(logger)

	var pg *db.Postgres
	var delegationModule delegation.Module
	var workflowModule workflow.Module
	var notificationsModule notifications.Module

	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}

		delegationRepo := delegationpostgres.NewRepository(pg.DB, logger)
		delegationModule = delegation.NewModule(delegation.Dependencies{
			Repository: delegationRepo,
			Outbox:     delegationRepo,
			Locker:     locker,
			Clock:      delegationpostgres.SystemClock{},
			IDGen:      delegationpostgres.UUIDGenerator{},
			Publisher:  bus,
			LockWait:   cfg.AggregateLockWait,
			Logger:     logger,
		})

		workflowRepo := workflowpostgres.NewRepository(pg.DB, logger)
		workflowModule = workflow.NewModule(workflow.Dependencies{
			Repository: workflowRepo,
			Outbox:     workflowRepo,
			Profiles: local.ProfileGateway{
				Profiles:    profiles.ResolveProfile,
				Delegations: delegationModule.ActiveFor,
				Logger:      logger,
			},
			Delegations: local.DelegationGateway{CompleteUseCase: delegationModule.Complete},
			Locker:      locker,
			Clock:       workflowpostgres.SystemClock{},
			IDGen:       workflowpostgres.UUIDGenerator{},
			References:  workflowpostgres.ULIDReferenceGenerator{},
			Publisher:   bus,
			LockWait:    cfg.AggregateLockWait,
			Logger:      logger,
		})

		notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
		notificationsModule = notifications.NewModule(notifications.Dependencies{
			Repository: notificationRepo,
			Clock:      notificationpostgres.SystemClock{},
			IDGen:      notificationpostgres.UUIDGenerator{},
			Pusher:     push.NewHub(cfg.PushBufferSize, logger),
			Logger:     logger,
		})
	} else {
		logger.Warn("POSTGRES_DSN is empty, running on in-memory stores",
			"event", "bootstrap_memory_mode",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		delegationModule = delegation.NewInMemoryModule(locker, bus, logger)
		workflowModule = workflow.NewInMemoryModule(
			local.ProfileGateway{
				Profiles:    profiles.ResolveProfile,
				Delegations: delegationModule.ActiveFor,
				Logger:      logger,
			},
			local.DelegationGateway{CompleteUseCase: delegationModule.Complete},
			locker,
			bus,
			logger,
		)
		notificationsModule = notifications.NewInMemoryModule(cfg.PushBufferSize, logger)
	}

	if !cfg.EnableNotificationStream {
		notificationsModule.Hub = nil
	}

	if cfg.EnableNotificationConsumer {
		consumerCtx := context.Background()
		for _, topic := range []string{
			notificationworkers.TopicCorrespondenceEvents,
			notificationworkers.TopicDelegationEvents,
		} {
			if err := bus.Subscribe(consumerCtx, topic, "notification-projection-cg", notificationsModule.Consumer.Handle); err != nil {
				return nil, err
			}
		}
	}

	server := httpserver.New(
		profiles,
		workflowModule,
		delegationModule,
		notificationsModule,
		cfg.PushPingInterval,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// BuildWorker wires the relay process. It republishes pending outbox rows
// from both correspondence services onto its own bus, where the idempotent
// notification projection absorbs replays.
func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)

	if cfg.EnableNotificationConsumer {
		notificationRepo := notificationpostgres.NewRepository(pg.DB, logger)
		notificationsModule := notifications.NewModule(notifications.Dependencies{
			Repository: notificationRepo,
			Clock:      notificationpostgres.SystemClock{},
			IDGen:      notificationpostgres.UUIDGenerator{},
			Pusher:     push.NewHub(cfg.PushBufferSize, logger),
			Logger:     logger,
		})
		consumerCtx := context.Background()
		for _, topic := range []string{
			notificationworkers.TopicCorrespondenceEvents,
			notificationworkers.TopicDelegationEvents,
		} {
			if err := bus.Subscribe(consumerCtx, topic, "notification-projection-cg", notificationsModule.Consumer.Handle); err != nil {
				return nil, err
			}
		}
	}

	workflowRepo := workflowpostgres.NewRepository(pg.DB, logger)
	delegationRepo := delegationpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		correspondence: workflowworkers.OutboxRelay{
			Outbox:    workflowRepo,
			Publisher: bus,
			Clock:     workflowpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		delegationEvents: delegationworkers.OutboxRelay{
			Outbox:    delegationRepo,
			Publisher: bus,
			Clock:     delegationpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"relay_enabled", w.relayEnabled,
	)

	if !w.relayEnabled {
		<-ctx.Done()
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return w.pollLoop(groupCtx, w.correspondence.RunOnce)
	})
	group.Go(func() error {
		return w.pollLoop(groupCtx, w.delegationEvents.RunOnce)
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *WorkerApp) pollLoop(ctx context.Context, runOnce func(context.Context) error) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if err := runOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
