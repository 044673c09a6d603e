package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmarquez/autoglass-backend/api/middleware"
	"github.com/dmarquez/autoglass-backend/api/responses"
	"github.com/dmarquez/autoglass-backend/api/validators"
	"github.com/dmarquez/autoglass-backend/internal/appointments"
	"github.com/dmarquez/autoglass-backend/pkg/enums"
	pkgerrors "github.com/dmarquez/autoglass-backend/pkg/errors"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
	"github.com/dmarquez/autoglass-backend/pkg/pagination"
)

// AppointmentCreate runs the full scheduling flow: customer touch-up,
// address, vehicle, insurance or sale, the appointment row, and its job.
func AppointmentCreate(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload appointments.CreateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.CreateComplete(r.Context(), payload, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteCreated(w, "appointment created", appt, map[string]any{
			"appointment_id": appt.ID,
		})
	}
}

// AppointmentDetail returns the appointment aggregate with every child
// preloaded.
func AppointmentDetail(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "appointment", appt)
	}
}

// AppointmentList filters by date range, status, replacement type, and a
// free-text query over customer name, phone, and VIN.
func AppointmentList(svc *appointments.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseAppointmentFilters(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), filters, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "appointments", list)
	}
}

// AppointmentUpdate applies schedule, status, and staffing edits.
func AppointmentUpdate(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload appointments.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appt, err := svc.Update(r.Context(), id, payload, actorFromContext(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "appointment updated", appt)
	}
}

// AppointmentDelete removes the appointment and its owned children.
func AppointmentDelete(svc *appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "appointment deleted", nil)
	}
}

// AppointmentSlots lists the valid installation time slots.
func AppointmentSlots(svc *appointments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "installation time slots", svc.Slots())
	}
}

func parseAppointmentFilters(r *http.Request, loc *time.Location) (appointments.ListFilters, error) {
	var filters appointments.ListFilters

	from, err := validators.ParseQueryDate(r, "from", loc)
	if err != nil {
		return filters, err
	}
	if !from.IsZero() {
		filters.From = &from
	}

	to, err := validators.ParseQueryDate(r, "to", loc)
	if err != nil {
		return filters, err
	}
	if !to.IsZero() {
		filters.To = &to
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseAppointmentStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}

	if raw := r.URL.Query().Get("replacement_type"); raw != "" {
		rt, err := enums.ParseReplacementType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid replacement type filter")
		}
		filters.ReplacementType = &rt
	}

	filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), 120)
	return filters, nil
}

// actorFromContext names the signed-in staff member for the audit trail.
func actorFromContext(r *http.Request) string {
	if email := middleware.EmailFromContext(r.Context()); email != "" {
		return email
	}
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return "system"
}
