package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfacade/backend/internal/interfaces/http/handler"
)

// Handlers bundles the module handlers mounted by the API
type Handlers struct {
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Orders   *handler.OrderHandler
}

// UserRoutes returns the /users group
func UserRoutes(h *handler.UserHandler) *DomainGroup {
	return NewDomainGroup("users", "/users").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// ProductRoutes returns the /products group
func ProductRoutes(h *handler.ProductHandler) *DomainGroup {
	return NewDomainGroup("products", "/products").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// OrderRoutes returns the /orders group. Orders have no update route.
func OrderRoutes(h *handler.OrderHandler) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		DELETE("/:id", h.Delete)
}

// SetupAPI mounts the users, products and orders modules under /api/v1
// and returns the groups that were registered.
func SetupAPI(engine *gin.Engine, h Handlers, opts ...RouterOption) []*DomainGroup {
	groups := []*DomainGroup{
		UserRoutes(h.Users),
		ProductRoutes(h.Products),
		OrderRoutes(h.Orders),
	}

	r := NewRouter(engine, opts...)
	for _, g := range groups {
		r.Register(g)
	}
	r.Setup()

	return groups
}

// SetupSystem mounts the unversioned operational endpoints.
// metrics may be nil when metrics are disabled.
func SetupSystem(engine *gin.Engine, system *handler.SystemHandler, metricsPath string, metrics http.Handler) {
	engine.GET("/health", system.Health)
	if metrics != nil && metricsPath != "" {
		engine.GET(metricsPath, gin.WrapH(metrics))
	}
}
