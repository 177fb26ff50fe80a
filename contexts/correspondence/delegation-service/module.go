package delegation

import (
	"log/slog"
	"time"

	httpadapter "chancery/contexts/correspondence/delegation-service/adapters/http"
	"chancery/contexts/correspondence/delegation-service/adapters/memory"
	"chancery/contexts/correspondence/delegation-service/application/commands"
	"chancery/contexts/correspondence/delegation-service/application/queries"
	"chancery/contexts/correspondence/delegation-service/application/workers"
	"chancery/contexts/correspondence/delegation-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	ActiveFor   queries.ActiveForUseCase
	Complete    commands.CompleteUseCase
	Store       *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Outbox     ports.OutboxRepository
	Locker     ports.Locker
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Publisher  ports.EventPublisher
	LockWait   time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	delegate := commands.DelegateUseCase{
		Repository: deps.Repository,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Publisher:  deps.Publisher,
		LockWait:   deps.LockWait,
		Logger:     deps.Logger,
	}
	revoke := commands.RevokeUseCase{
		Repository: deps.Repository,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Publisher:  deps.Publisher,
		LockWait:   deps.LockWait,
		Logger:     deps.Logger,
	}
	complete := commands.CompleteUseCase{
		Repository: deps.Repository,
		Locker:     deps.Locker,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Publisher:  deps.Publisher,
		LockWait:   deps.LockWait,
		Logger:     deps.Logger,
	}
	assign := commands.AssignAssistantUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	remove := commands.RemoveAssistantUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}
	activeFor := queries.ActiveForUseCase{
		Repository: deps.Repository,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			AssignAssistant: assign,
			RemoveAssistant: remove,
			Delegate:        delegate,
			Revoke:          revoke,
			Complete:        complete,
			ActiveFor:       activeFor,
			ListAssignments: queries.ListAssignmentsUseCase{Repository: deps.Repository, Logger: deps.Logger},
			ListForAssist:   queries.ListForAssistantUseCase{Repository: deps.Repository, Logger: deps.Logger},
			Logger:          deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		ActiveFor: activeFor,
		Complete:  complete,
	}
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store.
func NewInMemoryModule(locker ports.Locker, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		Locker:     locker,
		Clock:      store,
		IDGen:      store,
		Publisher:  publisher,
		LockWait:   3 * time.Second,
		Logger:     logger,
	})
	module.Store = store
	return module
}
