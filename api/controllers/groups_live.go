package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidmorenoc/desayunos-backend/api/responses"
	"github.com/davidmorenoc/desayunos-backend/api/validators"
	groupsvc "github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/reconcile"
	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
)

// GroupLive streams reconciled group snapshots over server-sent events. The
// connection owns a reconcile session for the named participant; while it is
// open, that participant's HTTP edits route through the session.
func GroupLive(manager *reconcile.Manager, registry *reconcile.Registry, svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "live sync unavailable"))
			return
		}

		person, err := validators.RequireQueryString(r, "person")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID := chi.URLParam(r, "groupId")
		first, err := svc.Snapshot(r.Context(), groupID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, ok := first.People[person]; !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeNotFound, "person not found in group"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		// Buffered so a slow client stalls at most the buffer; beyond that
		// intermediate frames drop and the next one carries the full state.
		events := make(chan *groupsvc.Group, 8)
		session, cancel, err := manager.Open(r.Context(), groupID, person, func(group *groupsvc.Group) {
			select {
			case events <- group:
			default:
			}
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer cancel()

		if registry != nil {
			remove := registry.Put(groupID, person, session)
			defer remove()
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		if err := writeEvent(w, flusher, first); err != nil {
			return
		}

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case group := <-events:
				if err := writeEvent(w, flusher, group); err != nil {
					return
				}
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, group *groupsvc.Group) error {
	raw, err := json.Marshal(group)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", raw); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
