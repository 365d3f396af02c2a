package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/medflow/idscan-service/internal/docprocessing/handler"
	"github.com/medflow/idscan-service/internal/docprocessing/service"
	"github.com/medflow/idscan-service/pkg/config"
	"github.com/medflow/idscan-service/pkg/database"
	"github.com/medflow/idscan-service/pkg/httputil"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/messaging"
)

// routerDeps are the optional backends reported by /health.
type routerDeps struct {
	db  *database.DB
	rmq *messaging.RabbitMQ
}

func newRouter(cfg *config.Config, svc *service.Service, log *logger.Logger, deps routerDeps) http.Handler {
	var handlerOpts []handler.Option
	if !cfg.JWT.Disabled {
		handlerOpts = append(handlerOpts, handler.WithPermissionChecks())
	}
	docHandler := handler.NewHandler(svc, log, cfg.Processing.MaxPayloadBytes, handlerOpts...)

	r := chi.NewRouter()

	// Global middleware (no tenant required)
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID", "X-Tenant-Slug", "X-Tenant-Schema"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":  "healthy",
			"service": serviceName,
		}
		if deps.db != nil {
			status["database"] = deps.db.Health(r.Context())
		}
		if deps.rmq != nil {
			status["rabbitmq"] = deps.rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})

	// Protected API endpoints (tenant required)
	r.Route("/api/v1", func(r chi.Router) {
		if !cfg.JWT.Disabled {
			r.Use(httputil.Authenticate(cfg.JWT.Secret, cfg.JWT.Issuer, log))
		}
		r.Use(httputil.TenantMiddleware)
		docHandler.Routes(r)
	})

	return r
}
