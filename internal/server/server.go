package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Debanjan110d/DevQnA/internal/handlers"
	"github.com/Debanjan110d/DevQnA/internal/middleware"
)

type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Options struct {
	Port        int
	CORSOrigins []string
}

type Server struct {
	handler  *handlers.Handler
	verifier middleware.TokenVerifier
	health   HealthChecker
	opts     Options
	logger   *zap.Logger
}

func New(handler *handlers.Handler, verifier middleware.TokenVerifier, health HealthChecker, opts Options, logger *zap.Logger) *Server {
	return &Server{
		handler:  handler,
		verifier: verifier,
		health:   health,
		opts:     opts,
		logger:   logger.Named("server"),
	}
}

// HTTPServer wraps the route table in an http.Server listening on the
// configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", s.opts.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := s.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(s.logger))

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		stats := s.health.Health(c.Request.Context())
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, stats)
	})

	h := s.handler
	auth := middleware.AuthMiddleware(s.verifier)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(s.verifier))
	{
		api.POST("/register", h.Auth.Register)
		api.POST("/login", h.Auth.Login)

		// Identity comes from the body; a bearer token, when sent, must match it.
		api.POST("/answer", h.Answer.CreateAnswer)
		api.DELETE("/answer", h.Answer.DeleteAnswer)
		api.POST("/vote", h.Vote.CastVote)
		api.GET("/vote", h.Vote.GetVote)

		api.GET("/questions", h.Question.GetQuestions)
		api.GET("/questions/:id", h.Question.GetQuestion)
		api.GET("/questions/:id/answers", h.Question.GetAnswers)
		api.GET("/comments", h.Comment.GetComments)
		api.GET("/users/:id", h.User.GetUserProfile)
		api.GET("/storage/buckets/:bucketId/files/:fileId/view", h.Storage.ViewFile)

		protected := api.Group("")
		protected.Use(auth)
		{
			protected.GET("/me", h.Auth.GetMe)

			protected.POST("/questions", h.Question.CreateQuestion)
			protected.PUT("/questions/:id", h.Question.UpdateQuestion)
			protected.DELETE("/questions/:id", h.Question.DeleteQuestion)

			protected.PUT("/answers/:id", h.Answer.UpdateAnswer)

			protected.POST("/comments", h.Comment.CreateComment)
			protected.DELETE("/comments/:commentId", h.Comment.DeleteComment)

			protected.PUT("/users/:id", h.User.UpdateUserProfile)

			protected.POST("/storage/buckets/:bucketId/files", h.Storage.UploadFile)
		}
	}

	return r
}
