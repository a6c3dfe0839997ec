package create_booking

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingToken        = "отсутствует токен подтверждения записи"
	msgDuplicateSubmission = "запись по этому подтверждению уже отправлена"
	msgGuardUnavailable    = "не удалось проверить повторную отправку, попробуйте позже"
	msgValidationFailed    = "некорректные данные записи"
	msgBookingRejected     = "YClients отклонил запись"
	msgAmbiguousOutcome    = "результат записи неизвестен, проверьте запись в YClients перед повтором"
	msgBookingProtocol     = "YClients вернул неожиданный ответ, проверьте запись в YClients перед повтором"
)

const guardKeyPrefix = "booking:confirm:"

type Handler struct {
	useCase CreateBookingUseCase
	guard   SubmissionGuard
	ttl     time.Duration
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, guard SubmissionGuard, ttl time.Duration, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		guard:   guard,
		ttl:     ttl,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Header X-Confirmation-Token: одна отправка на одно подтверждение пользователя
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.Header.Get(HeaderConfirmationToken))
	if token == "" {
		h.logger.Warn("POST /bookings - Missing confirmation token")
		handlers.RespondBadRequest(w, msgMissingToken)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Токен занимается до обращения к провайдеру
	key := guardKeyPrefix + token
	acquired, err := h.guard.SetNX(r.Context(), key, []byte(time.Now().UTC().Format(time.RFC3339)), h.ttl)
	if err != nil {
		h.logger.Error("POST /bookings - Submission guard failed: %v", err)
		handlers.RespondServiceUnavailable(w, msgGuardUnavailable)
		return
	}
	if !acquired {
		h.logger.Warn("POST /bookings - Duplicate submission: staff_id=%d", req.StaffID)
		handlers.RespondConflict(w, msgDuplicateSubmission)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		var (
			validationErr *createBooking.ValidationError
			rejectedErr   *createBooking.BookingRejectedError
		)
		switch {
		case errors.As(err, &validationErr):
			h.release(key)
			h.logger.Warn("POST /bookings - Validation failed: field=%s, error=%v", validationErr.Field, err)
			handlers.RespondBadRequest(w, msgValidationFailed+": "+validationErr.Field)

		case errors.As(err, &rejectedErr):
			h.release(key)
			message := rejectedErr.Message
			if message == "" {
				message = msgBookingRejected
			}
			h.logger.Warn("POST /bookings - Rejected by provider: staff_id=%d, message=%s", req.StaffID, rejectedErr.Message)
			handlers.RespondError(w, http.StatusUnprocessableEntity, message)

		case errors.Is(err, createBooking.ErrBookingAmbiguousOutcome):
			h.logger.Error("POST /bookings - Outcome unknown: staff_id=%d, date=%s, time=%s, error=%v",
				req.StaffID, req.Date, req.Time, err)
			handlers.RespondError(w, http.StatusGatewayTimeout, msgAmbiguousOutcome)

		case errors.Is(err, createBooking.ErrBookingProtocol):
			h.logger.Error("POST /bookings - Unexpected provider response: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgBookingProtocol)

		case handlers.RespondRemoteError(w, err):
			h.logger.Error("POST /bookings - Remote error: staff_id=%d, error=%v", req.StaffID, err)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: staff_id=%d, error=%v", req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, staff_id=%d",
		result.BookingID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// release освобождает токен, если запись точно не была создана
func (h *Handler) release(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.guard.Delete(ctx, key); err != nil {
		h.logger.Warn("POST /bookings - Failed to release confirmation token: %v", err)
	}
}
