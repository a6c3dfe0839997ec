package remove_master_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
)

const (
	msgInvalidMasterID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyServiceIDs    = "список услуг для удаления пуст"
	msgMasterNotFound     = "мастер не найден"
)

type Handler struct {
	service ReconciliationService
	logger  Logger
}

func NewHandler(service ReconciliationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/masters/{masterId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	var req RemoveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("DELETE /masters/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.RemoveExtraLinks(r.Context(), masterID, req.ServiceIDs)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgEmptyServiceIDs)

		case errors.Is(err, reconciliation.ErrMasterNotFound):
			handlers.RespondNotFound(w, msgMasterNotFound)

		default:
			h.logger.Error("DELETE /masters/{id}/services - Failed: master_id=%d, error=%v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /masters/{id}/services - Removed: master_id=%d, removed=%d", masterID, result.Removed)
	handlers.RespondJSON(w, http.StatusOK, &RemoveResponse{MasterID: result.MasterID, Removed: result.Removed})
}
