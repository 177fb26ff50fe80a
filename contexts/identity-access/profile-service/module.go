package profile

import (
	"log/slog"

	httpadapter "chancery/contexts/identity-access/profile-service/adapters/http"
	"chancery/contexts/identity-access/profile-service/adapters/memory"
	"chancery/contexts/identity-access/profile-service/application/queries"
	"chancery/contexts/identity-access/profile-service/ports"
)

// Module is the profile-service composition root exposed to runtime wiring.
type Module struct {
	Handler        httpadapter.Handler
	ResolveProfile queries.ResolveProfileUseCase
	Directory      *memory.Directory
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Directory ports.Directory
	Logger    *slog.Logger
}

// NewModule wires profile queries and the transport handler using explicit ports.
func NewModule(deps Dependencies) Module {
	resolveProfile := queries.ResolveProfileUseCase{
		Directory: deps.Directory,
		Logger:    deps.Logger,
	}
	officeHierarchy := queries.OfficeHierarchyUseCase{
		Directory: deps.Directory,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			ResolveProfile:  resolveProfile,
			OfficeHierarchy: officeHierarchy,
			Logger:          deps.Logger,
		},
		ResolveProfile: resolveProfile,
	}
}

// NewInMemoryModule builds a development/testing module with a seeded
// in-memory directory.
func NewInMemoryModule(logger *slog.Logger) Module {
	directory := memory.NewDirectory()
	module := NewModule(Dependencies{
		Directory: directory,
		Logger:    logger,
	})
	module.Directory = directory
	return module
}
