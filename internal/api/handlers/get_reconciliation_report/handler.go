package get_reconciliation_report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/reconciliation"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
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

// Handle GET /api/v1/reconciliation/report
// Query params: masterId (optional, без него сверяются все активные мастера)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var masterID *int64
	if raw := r.URL.Query().Get("masterId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondBadRequest(w, msgInvalidMasterID)
			return
		}
		masterID = ptr.Ptr(id)
	}

	report, err := h.service.FullReport(r.Context(), masterID)
	if err != nil {
		switch {
		case errors.Is(err, reconciliation.ErrMasterNotFound):
			handlers.RespondNotFound(w, msgMasterNotFound)

		case handlers.RespondRemoteError(w, err):
			h.logger.Warn("GET /reconciliation/report - Remote error: %v", err)

		default:
			h.logger.Error("GET /reconciliation/report - Failed to build report: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /reconciliation/report - Report built: masters=%d, failures=%d",
		report.Totals.Masters, len(report.Failures))
	handlers.RespondJSON(w, http.StatusOK, FromReport(report))
}
