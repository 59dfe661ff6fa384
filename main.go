package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equilibrio-api/cache"
	"equilibrio-api/config"
	"equilibrio-api/middleware"
	"equilibrio-api/routes"
	"equilibrio-api/scheduler"
	"equilibrio-api/services/marketdata"
	"equilibrio-api/services/presets"
	"equilibrio-api/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("==============================================")
	log.Println("  Equilibrio Screener API - Starting...")
	log.Println("==============================================")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Config load issue: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open the persistence backend. Filter and preset persistence degrades
	// to an in-memory store rather than refusing to start.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := config.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Printf("Failed to open store, falling back to in-memory persistence: %v", err)
		store = storage.NewMemoryStore()
	}

	// Optional Redis response cache; nil when not configured.
	var redisCache *cache.RedisClient
	if cfg.RedisURL != "" {
		redisCache = cache.NewRedisClient(cfg.RedisURL)
	}

	// Initialize services
	provider := marketdata.NewSyntheticProvider(time.Now().UnixNano())
	market := marketdata.NewService(provider, redisCache)
	presetSvc := presets.NewService(store)

	middleware.InitLoginRateLimiter()

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger())

	setupHealthEndpoints(router, store)
	routes.SetupRoutes(router, cfg, market, presetSvc)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	go func() {
		log.Printf("Server listening on 0.0.0.0:%s", cfg.Port)
		log.Println("==============================================")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Warm the snapshot in the background so the first request doesn't pay
	// the fetch latency.
	go func() {
		warmCtx, warmCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer warmCancel()
		if _, err := market.Snapshot(warmCtx); err != nil {
			log.Printf("Warning: Initial snapshot fetch failed: %v", err)
		}
	}()

	// Start background scheduler
	jobScheduler := scheduler.NewScheduler(market)
	go jobScheduler.Start()

	gracefulShutdown(server, jobScheduler, store, redisCache)
}

// setupHealthEndpoints sets up liveness and readiness probes
func setupHealthEndpoints(router *gin.Engine, store storage.Store) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Equilibrio Screener API",
			"version": "1.0.0",
		})
	})

	// Liveness probe - always returns OK if server is running
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Readiness probe - the screener serves from its snapshot, so readiness
	// only reflects that the process is up and the store opened.
	router.GET("/ready", func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "not_ready",
				"message": "Store not available",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	})
}

// corsMiddleware returns a CORS middleware handler
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestLogger returns a request logging middleware
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip logging for health checks to reduce noise
		path := c.Request.URL.Path
		if path == "/health" || path == "/ready" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		if c.Writer.Status() >= 400 || duration > 1*time.Second {
			log.Printf("%s %s %d %v", c.Request.Method, path, c.Writer.Status(), duration)
		}
	}
}

// gracefulShutdown handles graceful shutdown of the server
func gracefulShutdown(server *http.Server, jobScheduler *scheduler.Scheduler, store storage.Store, redisCache *cache.RedisClient) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Received signal %v, shutting down gracefully...", sig)

	if jobScheduler != nil {
		jobScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisCache.Close(); err != nil {
		log.Printf("Failed to close Redis client: %v", err)
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}

	log.Println("Server shutdown completed")
}
