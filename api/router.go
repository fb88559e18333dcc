package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pdpscrape/api/handler"
	"github.com/use-agent/pdpscrape/api/middleware"
	"github.com/use-agent/pdpscrape/config"
	"github.com/use-agent/pdpscrape/product"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Lookup:  RateLimit
//
// Health stays outside the rate limit so monitoring probes always work.
func NewRouter(svc handler.ProductLookup, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(product.TargetDomain, startTime))

	limited := r.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))

	lookup := handler.Product(svc)
	limited.POST("/api/v1/product", lookup)
	// Path served by the first release; kept for existing clients.
	limited.POST("/api/myntra/product", lookup)

	return r
}
