package wire

import (
	"context"
	"net/http"
	"time"

	"clinic-booking/internal/adaptor"
	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/database"
	"clinic-booking/pkg/middleware"
	"clinic-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the fully wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring connects repositories, services, handlers and the router. redisClient
// may be nil; rate limiting then falls back to the in-process limiter.
func Wiring(db database.PgxIface, repo *repository.Repository, config *utils.Config, redisClient *redis.Client, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, db, repo, config, redisClient, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	db database.PgxIface,
	repo *repository.Repository,
	config *utils.Config,
	redisClient *redis.Client,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics)

	// 120 requests per client per minute across the whole API, plus much
	// tighter budgets on OTP requests (those send real messages) and on
	// booking creation (each attempt takes an advisory lock).
	var otpLimit, bookingLimit func(http.Handler) http.Handler
	if redisClient != nil {
		r.Use(middleware.NewRedisRateLimiter(redisClient, "api", 120, time.Minute, logger).RateLimit)
		otpLimit = middleware.NewRedisRateLimiter(redisClient, "otp", 5, time.Minute, logger).RateLimit
		bookingLimit = middleware.NewRedisRateLimiter(redisClient, "booking", 20, time.Minute, logger).RateLimit
	} else {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(120, time.Minute)))
		otpLimit = middleware.RateLimit(middleware.NewRateLimiter(5, time.Minute))
		bookingLimit = middleware.RateLimit(middleware.NewRateLimiter(20, time.Minute))
	}

	wireAuth(r, handler.Auth, repo, otpLimit, logger)
	wireCatalog(r, handler.Catalog, repo, logger)
	wireBooking(r, handler.Booking, repo, bookingLimit, logger)
	wirePayment(r, handler.Payment, logger)
	wireReview(r, handler.Review, repo, logger)
	wireBlog(r, handler.Blog, repo, logger)
	wireChatbot(r, handler.Chatbot)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("Health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("DB UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
