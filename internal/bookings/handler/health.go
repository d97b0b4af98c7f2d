package handler

import (
	"context"
	"net/http"
	"time"
	httputil "villa/pkg/http"
	"villa/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 2 * time.Second

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

type HealthHandler struct {
	pingMongo func(ctx context.Context) error
	pingRedis func(ctx context.Context) error
	log       *logger.Logger
}

// NewHealthHandler builds readiness checks for the configured backends. A nil
// Redis client means Redis is not part of the deployment and is not checked.
func NewHealthHandler(mongoClient *mongo.Client, redisClient redis.Cmdable, log *logger.Logger) *HealthHandler {
	h := &HealthHandler{log: log}
	if mongoClient != nil {
		h.pingMongo = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}
	if redisClient != nil {
		h.pingRedis = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	return h
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ready"}
	if h.pingMongo != nil {
		resp.Database = "ok"
		if err := h.pingMongo(ctx); err != nil {
			h.log.Error("Database health check failed", "error", err, "path", r.URL.Path)
			resp.Status, resp.Database = "unavailable", "error"
		}
	}
	if h.pingRedis != nil {
		resp.Cache = "ok"
		if err := h.pingRedis(ctx); err != nil {
			h.log.Error("Redis health check failed", "error", err, "path", r.URL.Path)
			resp.Status, resp.Cache = "unavailable", "error"
		}
	}

	if resp.Status != "ready" {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
