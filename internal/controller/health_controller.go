package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type HealthController struct {
	db     *pgxpool.Pool
	redis  *redis.Client
	logger zerolog.Logger
}

func NewHealthController(db *pgxpool.Pool, redisClient *redis.Client, logger zerolog.Logger) *HealthController {
	return &HealthController{db: db, redis: redisClient, logger: logger}
}

// Liveness handles GET /health/live.
func (c *HealthController) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. Both backing stores are pinged in
// parallel; the endpoint reports not-ready as soon as either fails.
func (c *HealthController) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.db.Ping(gctx)
	})
	g.Go(func() error {
		return c.redis.Ping(gctx).Err()
	})

	if err := g.Wait(); err != nil {
		c.logger.Warn().Err(err).Msg("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
