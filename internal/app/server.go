// internal/app/server.go
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jiudi-console/internal/config"
	"jiudi-console/internal/db"
	agentHandler "jiudi-console/internal/handlers/agent"
	authHandler "jiudi-console/internal/handlers/auth"
	configHandler "jiudi-console/internal/handlers/config"
	couponHandler "jiudi-console/internal/handlers/coupon"
	dashboardHandler "jiudi-console/internal/handlers/dashboard"
	orderHandler "jiudi-console/internal/handlers/order"
	wsHandler "jiudi-console/internal/handlers/websocket"
	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/session"
	agentUsecase "jiudi-console/internal/service/agent"
	authUsecase "jiudi-console/internal/service/auth"
	configUsecase "jiudi-console/internal/service/config"
	couponUsecase "jiudi-console/internal/service/coupon"
	orderUsecase "jiudi-console/internal/service/order"
	statsUsecase "jiudi-console/internal/service/stats"
	"jiudi-console/internal/web"
	"jiudi-console/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const csrfCookieName = "jiudi_csrf"

type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger
	http   *http.Server
	redis  *redis.Client
	cancel context.CancelFunc
}

// NewServer connects the backing services and builds the HTTP handler. The
// hub and the rate limiter cleanup run until Shutdown.
func NewServer(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) (*Server, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Server{cfg: cfg, logger: logger, cancel: cancel}

	handler, err := s.build(ctx)
	if err != nil {
		cancel()
		if s.redis != nil {
			_ = s.redis.Close()
		}
		return nil, err
	}

	s.http = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler is the fully wrapped console handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until Shutdown.
func (s *Server) Run() error {
	s.logger.Info("console listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then stops background work.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.cancel()
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (s *Server) build(ctx context.Context) (http.Handler, error) {
	cfg, logger := s.cfg, s.logger

	// ----- Session store & login limiter -----
	var store session.Store
	var loginLimiter *session.RateLimiter
	switch cfg.SessionBackend {
	case "memory":
		logger.Warn("using in-memory sessions; sessions are lost on restart and login attempts are not limited")
		store = session.NewMemoryStore()
		loginLimiter = session.NewRateLimiter(nil)
	case "redis":
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		s.redis = client
		store = session.NewRedisStore(client)
		loginLimiter = session.NewRateLimiter(client)
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}

	// ----- API client -----
	client := apiclient.New(
		apiclient.WithBaseURL(cfg.APIBaseURL),
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger.Named("api")),
	)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(logger.Named("ws"))
	go hub.Run(ctx)

	// ----- Services -----
	authService := authUsecase.NewAuthService(client, logger)
	agentService := agentUsecase.NewAgentService(client, logger)
	configService := configUsecase.NewConfigService(client, logger)

	manager := session.NewManager(store, authService,
		session.WithTTL(cfg.SessionTTL),
		session.WithNotifier(hub),
		session.WithLogger(logger.Named("session")),
	)

	renderer, err := web.NewRenderer(logger)
	if err != nil {
		return nil, err
	}

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, loginLimiter, renderer, logger),
		AdminDashboard: dashboardHandler.NewAdminDashboardHandler(statsUsecase.NewAdminStatsService(client), renderer, logger),
		AgentDashboard: dashboardHandler.NewAgentDashboardHandler(statsUsecase.NewAgentStatsService(client), renderer, logger),
		AgentHandler:   agentHandler.NewAgentHandler(agentService, renderer, logger),
		AdminCoupons:   couponHandler.NewAdminCouponHandler(couponUsecase.NewAdminCouponService(client, logger), agentService, renderer, logger),
		AgentCoupons:   couponHandler.NewAgentCouponHandler(couponUsecase.NewAgentCouponService(client, logger), configService, renderer, logger),
		AdminOrders:    orderHandler.NewAdminOrderHandler(orderUsecase.NewAdminOrderService(client, logger), agentService, hub, renderer, logger),
		AgentOrders:    orderHandler.NewAgentOrderHandler(orderUsecase.NewAgentOrderService(client, logger), renderer, logger),
		ConfigHandler:  configHandler.NewConfigHandler(configService, renderer, logger),
		WSHandler:      wsHandler.NewWebSocketHandler(hub, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(manager, middleware.CookieConfig{
			Name:   cfg.SessionCookie,
			Secure: cfg.CookieSecure,
			MaxAge: cfg.SessionTTL,
		}, renderer.Loading, logger),
		Renderer: renderer,
	}

	// ----- Middlewares -----
	engine := gin.New()
	engine.Use(
		middleware.RecoveryMiddleware(logger, renderer.Error),
		middleware.CorrelationIDMiddleware(),
		middleware.RequestLoggingMiddleware(logger),
		middleware.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Middleware(),
	)

	// ----- Router -----
	SetupRouter(engine, handlers)

	return s.protect(engine)
}

// protect adds CSRF checks to every unsafe request. Plain HTTP deployments
// skip the TLS-only referer check.
func (s *Server) protect(next http.Handler) (http.Handler, error) {
	key := []byte(s.cfg.CSRFKey)
	if len(key) != 32 {
		if s.cfg.IsProduction() {
			return nil, errors.New("CSRF_KEY must be exactly 32 bytes in production")
		}
		s.logger.Warn("CSRF_KEY not set to 32 bytes, using a random key; forms break across restarts")
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate CSRF key: %w", err)
		}
	}

	protect := csrf.Protect(key,
		csrf.CookieName(csrfCookieName),
		csrf.Path("/"),
		csrf.Secure(s.cfg.CookieSecure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)),
			)
			http.Error(w, "Phiên biểu mẫu đã hết hạn, vui lòng tải lại trang.", http.StatusForbidden)
		})),
	)(next)

	if s.cfg.CookieSecure {
		return protect, nil
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	}), nil
}
