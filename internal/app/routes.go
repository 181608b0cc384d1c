package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/simp-lee/shopgraph/internal/pkg"
)

const healthCheckTimeout = time.Second

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Modules []Module
	DB      *gorm.DB

	// Redis is reported by /health only when non-nil.
	Redis *redis.Client
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Modules) == 0 {
		return errors.New("at least one module is required")
	}

	r.GET("/health", healthHandler(deps.DB, deps.Redis))

	root := r.Group("/")
	for i, m := range deps.Modules {
		if m == nil {
			return fmt.Errorf("module at index %d is nil", i)
		}
		m.RegisterRoutes(root)
	}

	r.NoRoute(noRouteHandler())

	return nil
}

// healthHandler returns a handler that pings the database (and Redis when
// configured) and reports status.
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		components := gin.H{"database": pingDatabase(ctx, db)}
		if rdb != nil {
			components["redis"] = pingRedis(ctx, rdb)
		}

		status := "ok"
		code := http.StatusOK
		for _, v := range components {
			if v != "ok" {
				status = "degraded"
				code = http.StatusServiceUnavailable
				break
			}
		}

		c.JSON(code, gin.H{
			"status":     status,
			"components": components,
		})
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "error"
	}
	sqlDB, err := db.DB()
	if err != nil {
		return "error"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error"
	}
	return "ok"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return "error"
	}
	return "ok"
}

// noRouteHandler returns a JSON 404 for unknown paths.
func noRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, pkg.Response{Code: http.StatusNotFound, Message: "not found"})
	}
}
