package resolve_mapping

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgMissingExternalID = "ID услуги YClients обязателен"

type Handler struct {
	resolver Resolver
	logger   Logger
}

func NewHandler(resolver Resolver, logger Logger) *Handler {
	return &Handler{
		resolver: resolver,
		logger:   logger,
	}
}

// Handle GET /api/v1/mappings/{externalId}
// not_found и conflict возвращаются со статусом 200: это результат, а не ошибка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	externalID := strings.TrimSpace(mux.Vars(r)["externalId"])
	if externalID == "" {
		handlers.RespondBadRequest(w, msgMissingExternalID)
		return
	}

	result, err := h.resolver.ResolveLocalService(r.Context(), externalID)
	if err != nil {
		h.logger.Error("GET /mappings/{id} - Failed to resolve: external_id=%s, error=%v", externalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /mappings/{id} - Resolved: external_id=%s, status=%s", externalID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromResolution(result))
}
