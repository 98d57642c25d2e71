package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-inmobiliario/internal/application/auth"
	"github.com/jhoicas/crm-inmobiliario/internal/application/lotes"
	"github.com/jhoicas/crm-inmobiliario/internal/application/usecase"
	"github.com/jhoicas/crm-inmobiliario/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	ClientUC        *usecase.ClientUseCase
	CatalogUC       *usecase.CatalogUseCase
	Engine          *lotes.Engine
	Query           *lotes.QueryUseCase
	JWTSecret       string
	NormalizeStrict bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas: JWT + actor recargado desde la base
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), ActorMiddleware(deps.UserUC))
	admin := RequireRole(string(entity.RoleAdmin))

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/viewable", userHandler.Viewable)
	users.Post("/", admin, userHandler.Create)
	users.Put("/:id/team", admin, userHandler.SetTeam)
	users.Post("/:id/deactivate", admin, userHandler.Deactivate)
	users.Delete("/:id", admin, userHandler.Delete)

	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Query)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/assignable", clientHandler.Assignable)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)
	clients.Post("/:id/assign-user", clientHandler.AssignUser)

	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	loteHandler := NewLoteHandler(deps.Engine, deps.Query, deps.NormalizeStrict)

	fracc := protected.Group("/fraccionamientos")
	fracc.Get("/", catalogHandler.ListFraccionamientos)
	fracc.Post("/", catalogHandler.CreateFraccionamiento)
	fracc.Put("/:id", catalogHandler.UpdateFraccionamiento)
	fracc.Get("/:id/paquetes", catalogHandler.ListPaquetes)
	fracc.Post("/:id/paquetes", catalogHandler.CreatePaquete)

	protos := protected.Group("/prototipos")
	protos.Get("/", catalogHandler.ListPrototipos)
	protos.Post("/", catalogHandler.CreatePrototipo)
	protos.Put("/:id", catalogHandler.UpdatePrototipo)

	paquetes := protected.Group("/paquetes")
	paquetes.Get("/:id/lotes", loteHandler.ListByPaquete)
	paquetes.Post("/:id/lotes", catalogHandler.CreateLote)
	paquetes.Post("/:id/lotes/import", catalogHandler.ImportLotes)

	lotesGroup := protected.Group("/lotes")
	lotesGroup.Get("/estados", loteHandler.Estados)
	lotesGroup.Get("/:id", loteHandler.Details)
	lotesGroup.Put("/:id", catalogHandler.UpdateLote)
	lotesGroup.Get("/:id/transitions", loteHandler.Transitions)
	lotesGroup.Get("/:id/history", loteHandler.History)
	lotesGroup.Get("/:id/status-log", loteHandler.StatusLog)
	lotesGroup.Post("/:id/assign", loteHandler.Assign)
	lotesGroup.Post("/:id/release", loteHandler.Release)
	lotesGroup.Post("/:id/status", loteHandler.ChangeStatus)
}
