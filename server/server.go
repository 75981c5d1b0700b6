// Package server assembles the tavita HTTP service: it wires configuration
// into the pipeline components, mounts the handlers on a chi router and runs
// the HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/tavita/config"
	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server/handlers"
	"github.com/teilomillet/tavita/server/messenger"
	"github.com/teilomillet/tavita/server/middleware"
	"github.com/teilomillet/tavita/server/processing"
	"github.com/teilomillet/tavita/server/prompt"
	"github.com/teilomillet/tavita/server/provider"
	"github.com/teilomillet/tavita/server/validation"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint and the CLI.
const Version = "v0.1.0"

// Route paths.
const (
	ChatPath    = "/api/chat"
	WebhookPath = "/api/eitaa"
	HealthPath  = "/health"
)

// Router handles HTTP routing
type Router struct {
	router chi.Router
}

// NewRouter mounts the handlers behind the global middleware stack. The chat
// and webhook handlers receive every method so they can answer non-POST
// requests with their own JSON error.
func NewRouter(chat, webhook http.Handler, logger *zap.Logger) *Router {
	r := chi.NewRouter()

	// Add our middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(errors.ErrorHandler(logger))
	r.Use(middleware.CORS)

	r.Handle(ChatPath, chat)
	r.Handle(WebhookPath, webhook)
	r.Get(HealthPath, handlers.HealthHandler(Version, logger))

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		errors.WriteError(w, errors.NewMethodNotAllowedError(
			middleware.GetRequestID(req.Context()), req.Method, http.MethodGet))
	})

	return &Router{router: r}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Option overrides a component that New would otherwise build from config.
type Option func(*deps)

type deps struct {
	completer provider.Completer
	messenger messenger.Messenger
	counter   processing.TokenCounter
	noCounter bool
}

// WithCompleter replaces the completion transport selected by llm.backend.
func WithCompleter(c provider.Completer) Option {
	return func(d *deps) { d.completer = c }
}

// WithMessenger replaces the Eitaa messenger.
func WithMessenger(m messenger.Messenger) Option {
	return func(d *deps) { d.messenger = m }
}

// WithTokenCounter replaces the tiktoken counter. A nil counter disables
// the prompt budget check.
func WithTokenCounter(c processing.TokenCounter) Option {
	return func(d *deps) {
		d.counter = c
		d.noCounter = c == nil
	}
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	router          *Router
	logger          *zap.Logger
	shutdownTimeout time.Duration
}

// New builds the complete service from configuration.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var d deps
	for _, opt := range opts {
		opt(&d)
	}

	builder, err := prompt.NewBuilder(cfg.Modes)
	if err != nil {
		return nil, fmt.Errorf("build prompt catalog: %w", err)
	}

	completer := d.completer
	if completer == nil {
		completer, err = newCompleter(cfg.LLM)
		if err != nil {
			return nil, err
		}
	}
	fallback := provider.NewFallback(completer, cfg.LLM.Models, logger.Named("fallback"))

	procOpts := []processing.Option{processing.WithLogger(logger.Named("pipeline"))}
	if counter := tokenCounter(cfg.LLM, d, logger); counter != nil {
		procOpts = append(procOpts, processing.WithTokenBudget(counter, cfg.LLM.MaxContextTokens))
	}
	processor, err := processing.NewProcessor(builder, fallback, procOpts...)
	if err != nil {
		return nil, err
	}

	payloadValidator, err := validation.NewPayloadValidator(validation.DefaultLimits())
	if err != nil {
		return nil, err
	}

	m := d.messenger
	if m == nil {
		m = messenger.NewEitaa(cfg.Messenger.BaseURL, cfg.Messenger.Token, cfg.Messenger.Timeout, nil, logger.Named("messenger"))
	}

	if !cfg.HasLLMCredentials() {
		logger.Warn("No completion API key configured; completion requests will fail")
	}
	if !cfg.HasMessengerCredentials() {
		logger.Warn("No bot token configured; webhook replies will not be sent")
	}

	chat := handlers.NewChatHandler(processor, payloadValidator, handlers.ChatOptions{
		HasCredentials: cfg.HasLLMCredentials(),
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}, logger.Named("chat"))
	webhook := handlers.NewWebhookHandler(processor, m, cfg.Replies, cfg.Server.MaxBodyBytes, logger.Named("webhook"))
	router := NewRouter(chat, webhook, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
		router:          router,
		logger:          logger,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}, nil
}

// newCompleter selects the completion transport for the configured backend.
func newCompleter(cfg config.LLMConfig) (provider.Completer, error) {
	switch cfg.Backend {
	case config.BackendOpenAI, "":
		return provider.NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Timeout, nil), nil
	case config.BackendGollm:
		return provider.NewGollmCompleter(cfg.Provider, cfg.APIKey, nil), nil
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

// tokenCounter returns the counter for the prompt budget, or nil when the
// check is disabled or the encoding cannot be loaded.
func tokenCounter(cfg config.LLMConfig, d deps, logger *zap.Logger) processing.TokenCounter {
	if cfg.MaxContextTokens <= 0 || d.noCounter {
		return nil
	}
	if d.counter != nil {
		return d.counter
	}
	counter, err := validation.NewTokenCounter(cfg.TokenEncoding)
	if err != nil {
		logger.Warn("Token budget check disabled", zap.String("encoding", cfg.TokenEncoding), zap.Error(err))
		return nil
	}
	return counter
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the server and blocks until ctx is cancelled or the listener
// fails. On cancellation in-flight requests get ShutdownTimeout to finish.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Server started", zap.String("address", s.httpServer.Addr), zap.String("version", Version))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		timeout := s.shutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}
