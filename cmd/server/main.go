package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/Kavas-89/Task-Management-System/internal/app"
	"github.com/Kavas-89/Task-Management-System/internal/config"
	"github.com/Kavas-89/Task-Management-System/internal/constants"
	"github.com/Kavas-89/Task-Management-System/internal/handlers"
	"github.com/Kavas-89/Task-Management-System/internal/logging"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	if err := config.LoadFile(""); err != nil {
		log.Fatalf("Failed to load env file: %v", err)
	}
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == gin.ReleaseMode
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, a, logger)

	var handler http.Handler = r
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			AllowCredentials: true,
		}).Handler(r)
	}

	// Start server
	logger.Info("server starting", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore keeps the client profile cookie either signed in the
// browser or in Redis.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.SessionStore != "redis" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // username (empty for default user)
		"",                        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}
