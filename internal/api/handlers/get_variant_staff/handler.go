package get_variant_staff

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

const (
	msgInvalidVariantID = "некорректный ID варианта услуги"
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

// Handle GET /api/v1/variants/{variantId}/staff
// Query params: diagnostic (optional, true - не скрывать уволенных и скрытых)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	variantID, err := strconv.ParseInt(mux.Vars(r)["variantId"], 10, 64)
	if err != nil || variantID <= 0 {
		h.logger.Warn("GET /variants/{id}/staff - Invalid variant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidVariantID)
		return
	}
	diagnostic, _ := strconv.ParseBool(r.URL.Query().Get("diagnostic"))

	result, err := h.service.StaffForVariant(r.Context(), variantID, diagnostic)
	if err != nil {
		if warning, ok := availability.Advisory(err); ok {
			h.logger.Warn("GET /variants/{id}/staff - Provider failure, empty list: variant_id=%d, warning=%s, error=%v",
				variantID, warning, err)
			handlers.RespondJSON(w, http.StatusOK, &StaffResponse{VariantID: variantID, Staff: []StaffSummary{}, Warning: warning})
			return
		}

		switch {
		case errors.Is(err, availability.ErrVariantNotFound):
			h.logger.Warn("GET /variants/{id}/staff - Variant not found: variant_id=%d", variantID)
			handlers.RespondNotFound(w, msgVariantNotFound)

		case errors.Is(err, availability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidVariantID)

		case handlers.RespondRemoteError(w, err):
			h.logger.Warn("GET /variants/{id}/staff - Remote error: variant_id=%d, error=%v", variantID, err)

		default:
			h.logger.Error("GET /variants/{id}/staff - Failed to get staff: variant_id=%d, error=%v", variantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /variants/{id}/staff - Staff retrieved: variant_id=%d, count=%d, fallback=%t",
		variantID, len(result.Staff), result.UsedFallback)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResult(result))
}
