package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/logistica-pro/internal/application/deliveries"
	"github.com/tu-usuario/logistica-pro/internal/application/fleet"
	"github.com/tu-usuario/logistica-pro/internal/application/inventory"
	"github.com/tu-usuario/logistica-pro/internal/application/routes"
	"github.com/tu-usuario/logistica-pro/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	WarehouseUC      *usecase.WarehouseUseCase
	UserUC           *usecase.UserUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	History          *inventory.HistoryUseCase
	FleetUC          *fleet.UseCase
	RouteUC          *routes.UseCase
	DeliveryUC       *deliveries.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Users
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)

	// Inventory movements
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.History)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements/product/:id", inventoryHandler.History)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/summary", inventoryHandler.Summary)

	// Vehicles
	vehicles := api.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.FleetUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Patch("/:id/state", vehicleHandler.ChangeState)
	vehicles.Post("/:id/driver", vehicleHandler.AssignDriver)

	// Routes
	routesGroup := api.Group("/routes")
	routeHandler := NewRouteHandler(deps.RouteUC)
	routesGroup.Post("/", routeHandler.Create)
	routesGroup.Get("/", routeHandler.List)
	routesGroup.Get("/:id", routeHandler.GetByID)
	routesGroup.Post("/:id/transition", routeHandler.Transition)
	routesGroup.Post("/:id/tracking", routeHandler.RegisterTracking)
	routesGroup.Put("/:id/delivered", routeHandler.RegisterDelivered)

	// Deliveries
	deliveriesGroup := api.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveriesGroup.Post("/", deliveryHandler.Create)
	deliveriesGroup.Get("/", deliveryHandler.List)
	deliveriesGroup.Get("/:id", deliveryHandler.GetByID)
	deliveriesGroup.Post("/:id/start-tracking", deliveryHandler.StartTracking)
	deliveriesGroup.Post("/:id/simulate-step", deliveryHandler.SimulateStep)
	deliveriesGroup.Post("/:id/delay", deliveryHandler.Delay)
	deliveriesGroup.Post("/:id/resume", deliveryHandler.Resume)
	deliveriesGroup.Post("/:id/complete", deliveryHandler.Complete)
	deliveriesGroup.Post("/:id/cancel", deliveryHandler.Cancel)
	deliveriesGroup.Get("/:id/receipt", deliveryHandler.Receipt)
}
