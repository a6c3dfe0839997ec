package import_masters

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgInvalidDryRun = "некорректное значение dryRun"

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

// Handle POST /api/v1/reconciliation/import-masters
// Query params: dryRun (optional, true - только посчитать изменения)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dryRun := false
	if raw := r.URL.Query().Get("dryRun"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDryRun)
			return
		}
		dryRun = v
	}

	report, err := h.service.ImportMasters(r.Context(), dryRun)
	if err != nil {
		if handlers.RespondRemoteError(w, err) {
			h.logger.Warn("POST /reconciliation/import-masters - Remote error: %v", err)
			return
		}
		h.logger.Error("POST /reconciliation/import-masters - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /reconciliation/import-masters - Done: dry_run=%t, created=%d, updated=%d",
		dryRun, len(report.Created), len(report.Updated))
	handlers.RespondJSON(w, http.StatusOK, FromReport(report))
}
