package controllers

import (
	"net/http"

	"github.com/davidmorenoc/desayunos-backend/api/responses"
	"github.com/davidmorenoc/desayunos-backend/api/validators"
	groupsvc "github.com/davidmorenoc/desayunos-backend/internal/groups"
	"github.com/davidmorenoc/desayunos-backend/internal/pricing"
	pkgerrors "github.com/davidmorenoc/desayunos-backend/pkg/errors"
	"github.com/davidmorenoc/desayunos-backend/pkg/logger"
)

type priceOrderRequest struct {
	Items groupsvc.ItemList `json:"items" validate:"required"`
}

// PriceOrder prices an ad-hoc single order without touching any group.
func PriceOrder(svc *groupsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing unavailable"))
			return
		}

		var payload priceOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := svc.PricePerson([]pricing.Item(payload.Items))
		responses.WriteSuccess(w, result)
	}
}
