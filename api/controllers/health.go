package controllers

import (
	"context"
	"net/http"

	"github.com/luxenest/luxenest-backend/api/responses"
	pkgerrors "github.com/luxenest/luxenest-backend/pkg/errors"
	"github.com/luxenest/luxenest-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes.
type HealthController struct {
	db    pinger
	cache pinger
	logg  *logger.Logger
}

// NewHealthController builds the probe handlers. Either pinger may be nil.
func NewHealthController(db, cache pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logg: logg}
}

// Live reports process liveness.
func (c *HealthController) Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports whether the backing services answer.
func (c *HealthController) Ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if c.db != nil {
			if err := c.db.Ping(ctx); err != nil {
				responses.WriteError(ctx, c.logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		if c.cache != nil {
			if err := c.cache.Ping(ctx); err != nil {
				responses.WriteError(ctx, c.logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
