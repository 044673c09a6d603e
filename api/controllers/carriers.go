package controllers

import (
	"net/http"

	"github.com/dmarquez/autoglass-backend/api/responses"
	"github.com/dmarquez/autoglass-backend/api/validators"
	"github.com/dmarquez/autoglass-backend/internal/insurance"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

// CarrierList returns the carrier lookup table for the scheduling form.
func CarrierList(svc *insurance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		carriers, err := svc.ListCarriers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "insurance carriers", carriers)
	}
}

// CarrierCreate adds a carrier. Admin only.
func CarrierCreate(svc *insurance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload insurance.CarrierInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		carrier, err := svc.CreateCarrier(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, "carrier created", carrier)
	}
}
