package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/stockroomlabs/stockroom-backend/api/responses"
	"github.com/stockroomlabs/stockroom-backend/pkg/config"
	"github.com/stockroomlabs/stockroom-backend/pkg/db"
	pkgerrors "github.com/stockroomlabs/stockroom-backend/pkg/errors"
	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
	pkgredis "github.com/stockroomlabs/stockroom-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockroom-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks every backing dependency and reports per-dependency
// status. A single failing dependency fails the whole probe.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pkgredis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Stockroom-Env", cfg.App.Env)

		var failures error
		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				checks["database"] = "down"
				failures = multierr.Append(failures, err)
			} else {
				checks["database"] = "up"
			}
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				checks["redis"] = "down"
				failures = multierr.Append(failures, err)
			} else {
				checks["redis"] = "up"
			}
		}

		if failures != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "readiness check failed").WithDetails(checks))
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
