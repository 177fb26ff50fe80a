package workflow

import (
	"log/slog"
	"time"

	httpadapter "chancery/contexts/correspondence/workflow-service/adapters/http"
	"chancery/contexts/correspondence/workflow-service/adapters/memory"
	"chancery/contexts/correspondence/workflow-service/application/commands"
	"chancery/contexts/correspondence/workflow-service/application/queries"
	"chancery/contexts/correspondence/workflow-service/application/workers"
	"chancery/contexts/correspondence/workflow-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	ApplyMinute commands.ApplyMinuteUseCase
	Register    commands.RegisterUseCase
	Profiles    ports.ProfileGateway
	Store       *memory.Store
}

type Dependencies struct {
	Repository  ports.Repository
	Outbox      ports.OutboxRepository
	Profiles    ports.ProfileGateway
	Delegations ports.DelegationGateway
	Locker      ports.Locker
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	References  ports.ReferenceGenerator
	Publisher   ports.EventPublisher
	LockWait    time.Duration
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	register := commands.RegisterUseCase{
		Repository: deps.Repository,
		Profiles:   deps.Profiles,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		References: deps.References,
		Publisher:  deps.Publisher,
		Logger:     deps.Logger,
	}
	applyMinute := commands.ApplyMinuteUseCase{
		Repository:  deps.Repository,
		Profiles:    deps.Profiles,
		Delegations: deps.Delegations,
		Locker:      deps.Locker,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Publisher:   deps.Publisher,
		LockWait:    deps.LockWait,
		Logger:      deps.Logger,
	}
	archive := commands.ArchiveUseCase{
		Repository: deps.Repository,
		Profiles:   deps.Profiles,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Publisher:  deps.Publisher,
		LockWait:   deps.LockWait,
		Logger:     deps.Logger,
	}
	distribute := commands.DistributeUseCase{
		Repository: deps.Repository,
		Profiles:   deps.Profiles,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Publisher:  deps.Publisher,
		Logger:     deps.Logger,
	}
	linkDocument := commands.LinkDocumentUseCase{
		Repository: deps.Repository,
		Profiles:   deps.Profiles,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	markRead := commands.MarkMinuteReadUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			Register:       register,
			ApplyMinute:    applyMinute,
			Archive:        archive,
			Distribute:     distribute,
			LinkDocument:   linkDocument,
			MarkMinuteRead: markRead,
			Get:            queries.GetCorrespondenceUseCase{Repository: deps.Repository, Logger: deps.Logger},
			ListInbox:      queries.ListInboxUseCase{Repository: deps.Repository, Logger: deps.Logger},
			ListRegistry:   queries.ListRegistryUseCase{Repository: deps.Repository, Profiles: deps.Profiles, Logger: deps.Logger},
			ListMinutes:    queries.ListMinutesUseCase{Repository: deps.Repository, Logger: deps.Logger},
			Logger:         deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		ApplyMinute: applyMinute,
		Register:    register,
		Profiles:    deps.Profiles,
	}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store. Profile and delegation gateways come from the caller so
// sibling modules can share one lock registry and bus.
func NewInMemoryModule(
	profiles ports.ProfileGateway,
	delegations ports.DelegationGateway,
	locker ports.Locker,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:  store,
		Outbox:      store,
		Profiles:    profiles,
		Delegations: delegations,
		Locker:      locker,
		Clock:       store,
		IDGen:       store,
		References:  store,
		Publisher:   publisher,
		LockWait:    3 * time.Second,
		Logger:      logger,
	})
	module.Store = store
	return module
}
