package notifications

import (
	"log/slog"

	httpadapter "chancery/contexts/notifications/notification-service/adapters/http"
	"chancery/contexts/notifications/notification-service/adapters/memory"
	"chancery/contexts/notifications/notification-service/adapters/push"
	"chancery/contexts/notifications/notification-service/application/commands"
	"chancery/contexts/notifications/notification-service/application/queries"
	"chancery/contexts/notifications/notification-service/application/workers"
	"chancery/contexts/notifications/notification-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Consumer workers.WorkflowEventConsumer
	Create   commands.CreateNotificationUseCase
	Hub      *push.Hub
	Store    *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Pusher     ports.Pusher
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	create := commands.CreateNotificationUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Pusher:     deps.Pusher,
		Logger:     deps.Logger,
	}

	module := Module{
		Handler: httpadapter.Handler{
			MarkRead:         commands.MarkReadUseCase{Repository: deps.Repository, Clock: deps.Clock, Logger: deps.Logger},
			MarkArchived:     commands.MarkArchivedUseCase{Repository: deps.Repository, Clock: deps.Clock, Logger: deps.Logger},
			ListForRecipient: queries.ListForRecipientUseCase{Repository: deps.Repository, Logger: deps.Logger},
			UnreadCount:      queries.UnreadCountUseCase{Repository: deps.Repository, Logger: deps.Logger},
			Logger:           deps.Logger,
		},
		Consumer: workers.WorkflowEventConsumer{
			Create: create,
			Logger: deps.Logger,
		},
		Create: create,
	}
	if hub, ok := deps.Pusher.(*push.Hub); ok {
		module.Hub = hub
	}
	return module
}

// NewInMemoryModule builds a development/testing module backed by the
// in-memory store and a fresh push hub.
func NewInMemoryModule(pushBufferSize int, logger *slog.Logger) Module {
	store := memory.NewStore()
	hub := push.NewHub(pushBufferSize, logger)
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		Pusher:     hub,
		Logger:     logger,
	})
	module.Store = store
	return module
}
