package controller

import (
	"context"
	"net/http"
	"time"

	cport "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/port"
	"github.com/RajeebLochan/QuickPost/internal/pkg/quotes/application/usecase"

	"github.com/gin-gonic/gin"
)

// GetQuoteController serves the cached quote of the day.
type GetQuoteController struct {
	UC *usecase.GetQuoteUseCase
}

func NewGetQuoteController(cache cport.Cache) *GetQuoteController {
	refresh := usecase.NewRefreshQuoteUseCase(cache)
	return &GetQuoteController{UC: usecase.NewGetQuoteUseCase(cache, refresh)}
}

func (h *GetQuoteController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		q, err := h.UC.Execute(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Quote unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "quote": q})
	}
}
