package apply_reconciliation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
)

const (
	msgInvalidMasterID = "некорректный ID мастера"
	msgMasterNotFound  = "мастер не найден"
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

// Handle POST /api/v1/reconciliation/masters/{masterId}/sync
// Сверка выполняется заново, добавляются только недостающие связи
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	masterID, err := strconv.ParseInt(mux.Vars(r)["masterId"], 10, 64)
	if err != nil || masterID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidMasterID)
		return
	}

	result, err := h.service.ApplySync(r.Context(), masterID, nil)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrMasterNotFound):
			handlers.RespondNotFound(w, msgMasterNotFound)

		case errors.Is(err, reconciliation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidMasterID)

		case handlers.RespondRemoteError(w, err):
			h.logger.Warn("POST /reconciliation/masters/{id}/sync - Remote error: master_id=%d, error=%v", masterID, err)

		default:
			h.logger.Error("POST /reconciliation/masters/{id}/sync - Failed: master_id=%d, error=%v", masterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reconciliation/masters/{id}/sync - Applied: master_id=%d, added=%d", masterID, result.Added)
	handlers.RespondJSON(w, http.StatusOK, &SyncResponse{MasterID: result.MasterID, Requested: result.Requested, Added: result.Added})
}
