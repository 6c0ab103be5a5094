// Package server implements the task API that todoctl talks to.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds server settings, read from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	GinMode     string
}

// LoadConfig reads PORT, DATABASE_URL, JWT_SECRET and GIN_MODE.
func LoadConfig() Config {
	v := viper.New()
	v.SetDefault("port", "8000")
	v.SetDefault("database_url", "todo.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("gin_mode", gin.ReleaseMode)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return Config{
		Port:        v.GetString("port"),
		DatabaseURL: v.GetString("database_url"),
		JWTSecret:   v.GetString("jwt_secret"),
		GinMode:     v.GetString("gin_mode"),
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Server serves the task and auth routes.
type Server struct {
	db     *gorm.DB
	tasks  *TaskStore
	users  *UserStore
	tokens *TokenManager
	hasher *PasswordHasher
	log    *zap.Logger
	router *gin.Engine

	mu   sync.Mutex
	http *http.Server
}

// New creates a server over db.
func New(db *gorm.DB, tokens *TokenManager, hasher *PasswordHasher, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		tasks:  NewTaskStore(db),
		users:  NewUserStore(db),
		tokens: tokens,
		hasher: hasher,
		log:    logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), GinZapMiddleware(s.log))

	r.GET("/health", s.health)

	tasks := r.Group("/tasks")
	tasks.GET("/", s.listTasks)
	tasks.POST("/", s.createTask)
	tasks.GET("/:id", s.getTask)
	tasks.PUT("/:id", s.updateTask)
	tasks.DELETE("/:id", s.deleteTask)

	auth := r.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.GET("/me", requireToken(s.tokens), s.me)

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.http = srv
	s.mu.Unlock()

	s.log.Info("starting server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
