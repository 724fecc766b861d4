package v1

import (
	bport "github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/port"
	cport "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/port"
	"github.com/RajeebLochan/QuickPost/internal/pkg/identity"
	messagingHTTP "github.com/RajeebLochan/QuickPost/internal/pkg/messaging/presentation/http"
	quotesController "github.com/RajeebLochan/QuickPost/internal/pkg/quotes/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, backbone bport.Backbone, cache cport.Cache) {
	v1 := r.Group("/api/v1", identity.Middleware())

	messagingHTTP.RegisterRoutes(v1, pool, backbone)

	// GET /api/v1/quote -> quote of the day; absent when no cache is wired
	if cache != nil {
		v1.GET("/quote", quotesController.NewGetQuoteController(cache).Handle())
	}
}
