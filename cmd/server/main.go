package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notepad-server/internal/config"
	"notepad-server/internal/events"
	"notepad-server/internal/handler"
	"notepad-server/internal/markdown"
	"notepad-server/internal/middleware"
	"notepad-server/internal/repository"
	"notepad-server/internal/service"
	"notepad-server/internal/websocket"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.DebugLogging() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	client, err := kivik.New("couch", cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to CouchDB: %v", err)
	}

	exists, err := client.DBExists(context.Background(), cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to check database existence: %v", err)
	}

	if !exists {
		if err := client.CreateDB(context.Background(), cfg.Database.Name); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
		log.Printf("Created database: %s", cfg.Database.Name)
	}

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)
	revocations := newRevocationRepository(cfg.Redis)

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.MaxMessageSize,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	wsManager.SetMessageHandler(handler.NewWebSocketMessageHandler())
	go wsManager.Run()

	publishers := events.Fanout{events.NewWebSocketPublisher(wsManager)}
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			log.Printf("AMQP disabled: %v", err)
		} else {
			defer amqpPublisher.Close()
			publishers = append(publishers, amqpPublisher)
		}
	}

	authService := service.NewAuthService(userRepo, revocations, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.RefreshTokenExpiration)
	noteService := service.NewNoteService(noteRepo, publishers)
	workspaceService := service.NewWorkspaceService(noteService, markdown.NewRenderer())

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	workspaceService.StartJanitor(janitorCtx, cfg.Editor.SweepInterval, cfg.Editor.IdleTimeout)

	authHandler := handler.NewAuthHandler(authService, workspaceService)
	noteHandler := handler.NewNoteHandler(workspaceService)
	editorHandler := handler.NewEditorHandler(workspaceService, cfg.Editor.MaxContentBytes)
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize)
	healthHandler := handler.NewHealthHandler(workspaceService, wsManager)

	r := mux.NewRouter()

	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.RecoverMiddleware())
	r.Use(middleware.CORSMiddleware(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))
	r.Use(middleware.OriginMiddleware())

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST", "OPTIONS")
	api.HandleFunc("/options", handler.Options).Methods("GET", "OPTIONS")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware(authService))

	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")

	protected.HandleFunc("/notes", noteHandler.List).Methods("GET", "OPTIONS")
	protected.HandleFunc("/notes/{id}", noteHandler.Delete).Methods("DELETE", "OPTIONS")

	protected.HandleFunc("/editor", editorHandler.Open).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor", editorHandler.Get).Methods("GET", "OPTIONS")
	protected.HandleFunc("/editor", editorHandler.Close).Methods("DELETE", "OPTIONS")
	protected.HandleFunc("/editor/title", editorHandler.UpdateTitle).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/editor/content", editorHandler.UpdateContent).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/editor/style", editorHandler.UpdateStyle).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/editor/font-size/{direction:increase|decrease}", editorHandler.FontSize).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor/preview", editorHandler.TogglePreview).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor/format", editorHandler.Format).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor/back", editorHandler.StepBack).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor/forward", editorHandler.StepForward).Methods("POST", "OPTIONS")
	protected.HandleFunc("/editor/save", editorHandler.Save).Methods("POST", "OPTIONS")

	r.Handle("/ws", middleware.AuthMiddleware(authService)(http.HandlerFunc(wsHandler.HandleConnection)))

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting notepad server on %s (env: %s)", addr, cfg.Server.Env)
		log.Printf("Connected to CouchDB at %s:%s", cfg.Database.Host, cfg.Database.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	wsManager.Stop()

	log.Println("Server stopped gracefully")
}

// newRevocationRepository uses Redis when it is configured and reachable,
// and process memory otherwise.
func newRevocationRepository(cfg config.RedisConfig) repository.RevocationRepository {
	if cfg.Addr == "" {
		log.Println("REDIS_ADDR not set, keeping revoked tokens in memory")
		return repository.NewMemoryRevocationRepository()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable at %s, keeping revoked tokens in memory: %v", cfg.Addr, err)
		rdb.Close()
		return repository.NewMemoryRevocationRepository()
	}

	log.Printf("Connected to Redis at %s", cfg.Addr)
	return repository.NewRevocationRepository(rdb, cfg.KeyPrefix)
}
