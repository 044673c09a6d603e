package controllers

import (
	"net/http"
	"time"

	"github.com/dmarquez/autoglass-backend/api/responses"
	"github.com/dmarquez/autoglass-backend/api/validators"
	"github.com/dmarquez/autoglass-backend/internal/dashboard"
	"github.com/dmarquez/autoglass-backend/pkg/logger"
)

// DashboardSummary returns counts and revenue totals for the requested date
// range, defaulting to the current month.
func DashboardSummary(svc *dashboard.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to", loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, "dashboard summary", summary)
	}
}
