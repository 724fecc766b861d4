package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/RajeebLochan/QuickPost/cmd/api/router/v1"
	badapter "github.com/RajeebLochan/QuickPost/internal/infrastructure/broadcast/adapter"
	cacheAdapter "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/adapter"
	cport "github.com/RajeebLochan/QuickPost/internal/infrastructure/cache/port"
	"github.com/RajeebLochan/QuickPost/internal/infrastructure/database"
	queueAdapter "github.com/RajeebLochan/QuickPost/internal/infrastructure/queue/adapter"
	quoteTask "github.com/RajeebLochan/QuickPost/internal/pkg/quotes/application/task"
	quoteUsecase "github.com/RajeebLochan/QuickPost/internal/pkg/quotes/application/usecase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		cancel()
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		cancel()
		log.Fatalf("failed to ensure schema: %v", err)
	}
	cancel()

	backbone, err := badapter.NewFromEnv()
	if err != nil {
		log.Fatalf("failed to set up broadcast backbone: %v", err)
	}
	defer backbone.Close()

	// The quote feature needs Redis for cache and workers. Everything else
	// runs without it, so a missing REDIS_URL only disables quotes.
	var cache cport.Cache
	if c, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: quote cache disabled: %v", err)
	} else {
		cache = c
		defer c.Close()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cache != nil {
		startQuoteWorkers(runCtx, cache)
	}

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, backbone, cache)

	addr := ":8080"
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-runCtx.Done()
	log.Println("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// startQuoteWorkers wires the asynq worker loop, refreshes the quote once on
// boot, and seeds the recurring refresh schedule.
func startQuoteWorkers(ctx context.Context, cache cport.Cache) {
	client, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Printf("Warning: quote workers disabled: %v", err)
		return
	}
	server, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Printf("Warning: quote workers disabled: %v", err)
		_ = client.Close()
		return
	}

	refresh := quoteUsecase.NewRefreshQuoteUseCase(cache)
	quoteTask.RegisterRefreshQuoteTask(server, client, refresh)

	go func() {
		if err := server.Run(ctx); err != nil {
			log.Printf("quote workers stopped: %v", err)
		}
		_ = client.Close()
	}()

	go func() {
		bootCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, err := refresh.Execute(bootCtx); err != nil {
			log.Printf("initial quote refresh failed: %v", err)
		}
		quoteTask.EnqueueNextRefresh(bootCtx, client)
	}()
}
