package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidmorenoc/desayunos-backend/api/responses"
	"github.com/davidmorenoc/desayunos-backend/api/validators"
	groupsvc "github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	"github.com/davidmorenoc/desayunos-backend/internal/reconcile"
	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
)

type joinGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type setItemsRequest struct {
	Items groupsvc.ItemList `json:"items" validate:"required"`
}

// GroupCreate opens a fresh group.
func GroupCreate(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		group, err := svc.Create(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

// GroupJoin adds a named participant to an existing group.
func GroupJoin(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		var payload joinGroupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID := chi.URLParam(r, "groupId")
		group, err := svc.Join(r.Context(), groupID, payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupSetItems replaces one participant's selection. When the participant
// holds a live session the edit routes through it so the echo of their own
// write cannot stomp the local state.
func GroupSetItems(svc *groupsvc.Service, registry *reconcile.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		var payload setItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		groupID := chi.URLParam(r, "groupId")
		person := chi.URLParam(r, "person")
		items := []pricing.Item(payload.Items)

		var group *groupsvc.Group
		var err error
		if session := liveSession(registry, groupID, person); session != nil {
			group, err = session.SetItems(r.Context(), items)
		} else {
			group, err = svc.SetPersonItems(r.Context(), groupID, person, items)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupSnapshot returns the group with rederived totals.
func GroupSnapshot(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		group, err := svc.Snapshot(r.Context(), chi.URLParam(r, "groupId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupPricing prices the union of everyone's items in group mode.
func GroupPricing(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		result, err := svc.OptimalPricing(r.Context(), chi.URLParam(r, "groupId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GroupMarkPaid settles the group.
func GroupMarkPaid(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		group, err := svc.MarkPaid(r.Context(), chi.URLParam(r, "groupId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, group)
	}
}

// GroupDelete removes the group record.
func GroupDelete(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "groupId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminGroupList exposes every live group for the admin surface.
func AdminGroupList(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "group service unavailable"))
			return
		}

		listed, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"groups": listed, "count": len(listed)})
	}
}

func liveSession(registry *reconcile.Registry, groupID, person string) *reconcile.Session {
	if registry == nil {
		return nil
	}
	return registry.Get(groupID, person)
}
