package get_staff_times

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

const (
	msgInvalidStaffID   = "некорректный ID мастера"
	msgInvalidVariantID = "некорректный ID варианта услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidInput     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgVariantNotFound  = "вариант услуги не найден"
)

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

// Handle GET /api/v1/staff/{staffId}/times
// Query params: date (required, YYYY-MM-DD), variantId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	staffID, err := strconv.ParseInt(mux.Vars(r)["staffId"], 10, 64)
	if err != nil || staffID <= 0 {
		h.logger.Warn("GET /staff/{id}/times - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var variantID *int64
	if raw := r.URL.Query().Get("variantId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /staff/{id}/times - Invalid variant ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidVariantID)
			return
		}
		variantID = ptr.Ptr(id)
	}

	result, err := h.service.AvailableTimes(r.Context(), staffID, date, variantID)
	if err != nil {
		if warning, ok := availability.Advisory(err); ok {
			h.logger.Warn("GET /staff/{id}/times - Provider failure, empty list: staff_id=%d, date=%s, warning=%s, error=%v",
				staffID, date, warning, err)
			handlers.RespondJSON(w, http.StatusOK, &TimesResponse{
				StaffID:   staffID,
				Date:      date,
				VariantID: variantID,
				Times:     []string{},
				Warning:   warning,
			})
			return
		}

		switch {
		case errors.Is(err, availability.ErrVariantNotFound):
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("GET /staff/{id}/times - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case handlers.RespondRemoteError(w, err):
			h.logger.Warn("GET /staff/{id}/times - Remote error: staff_id=%d, error=%v", staffID, err)

		default:
			h.logger.Error("GET /staff/{id}/times - Failed to get times: staff_id=%d, date=%s, error=%v", staffID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /staff/{id}/times - Times retrieved: staff_id=%d, date=%s, count=%d, degraded=%t",
		staffID, date, len(result.Slots), result.Degraded)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}
