// Package api declares the HTTP surface: the route table and the handlers
// behind it. Routes are mounted through an explicit ordered list of
// registrar functions; nothing is loaded by name at runtime.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/isquicha/desafio-softfocus/internal/auth"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/server"
	"github.com/isquicha/desafio-softfocus/internal/server/middleware"
	"github.com/isquicha/desafio-softfocus/internal/store"
)

// Deps carries everything the handlers need. Built once in main and passed
// down; handlers hold no other state.
type Deps struct {
	Log        *logger.Logger
	Auth       *auth.Service
	DB         *store.DB
	Users      *store.UserStore
	Produtores *store.ProdutorStore
	Lavouras   *store.LavouraStore
	Perdas     *store.PerdaStore
}

// registrar mounts one resource's routes onto a router group.
type registrar func(public, protected *gin.RouterGroup, d *Deps)

// registrars is the ordered, static route registration list.
var registrars = []registrar{
	registerUserRoutes,
	registerProdutorRoutes,
	registerLavouraRoutes,
	registerPerdaRoutes,
}

// Register applies the middleware stack and mounts every route. The token
// gate wraps only the protected group, so the status mapping for token
// failures stays centralized in one middleware.
func Register(engine *gin.Engine, d *Deps) {
	engine.Use(middleware.Recovery(d.Log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(d.Log))
	engine.NoMethod(methodNotAllowed)
	engine.HandleMethodNotAllowed = true

	engine.GET("/health", healthHandler(d))

	public := engine.Group("/api")
	protected := engine.Group("/api")
	protected.Use(middleware.TokenAuth(d.Auth, d.Log))

	for _, register := range registrars {
		register(public, protected, d)
	}
}

func methodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"error": gin.H{"code": "METHOD_NOT_ALLOWED", "message": "Method not allowed"},
	})
}

func healthHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := d.DB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		server.RespondOK(c, "", gin.H{"status": "healthy"})
	}
}
