package controllers

import (
	"net/http"

	"github.com/davidmorenoc/desayunos-backend/api/responses"
	"github.com/davidmorenoc/desayunos-backend/pkg/config"
	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
	"github.com/davidmorenoc/desayunos-backend/pkg/sharedstore"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Desayunos-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store sharedstore.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Desayunos-Env", cfg.App.Env)
		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "shared store unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
