package get_staff_dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

const msgInvalidStaffID = "некорректный ID мастера"

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/staff/{staffId}/dates
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil || staffID <= 0 {
		h.logger.Warn("GET /staff/{id}/dates - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	result, err := h.service.AvailableDates(r.Context(), staffID)
	if err != nil {
		if warning, ok := availability.Advisory(err); ok {
			h.logger.Warn("GET /staff/{id}/dates - Provider failure, empty list: staff_id=%d, warning=%s, error=%v",
				staffID, warning, err)
			handlers.RespondJSON(w, http.StatusOK, &DatesResponse{StaffID: staffID, Dates: []string{}, Warning: warning})
			return
		}

		switch {
		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStaffID)

		case handlers.RespondRemoteError(w, err):
			h.logger.Warn("GET /staff/{id}/dates - Remote error: staff_id=%d, error=%v", staffID, err)

		default:
			h.logger.Error("GET /staff/{id}/dates - Failed to get dates: staff_id=%d, error=%v", staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/dates - Dates retrieved: staff_id=%d, count=%d", staffID, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, &DatesResponse{StaffID: result.StaffID, Dates: result.Dates})
}
