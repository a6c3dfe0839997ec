package create_booking

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/phone"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var validate = validator.New()

// validated запрос после проверки и нормализации
type validated struct {
	serviceIDs []int64
	datetime   string
	phone      string
	email      string
	name       string
}

// validateRequest проверяет запрос в фиксированном порядке:
// мастер, услуги, дата, время, имя, телефон, email
func validateRequest(req *Request) (*validated, error) {
	if req == nil {
		return nil, &ValidationError{Field: "request", Message: "request is required"}
	}

	if req.StaffID <= 0 {
		return nil, &ValidationError{Field: "staff_id", Message: "staff id is required"}
	}

	if len(req.ServiceIDs) == 0 {
		return nil, &ValidationError{Field: "service_ids", Message: "at least one service is required"}
	}
	serviceIDs := make([]int64, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			return nil, &ValidationError{Field: "service_ids", Message: "service id must be a positive integer: " + raw}
		}
		serviceIDs = append(serviceIDs, id)
	}

	if _, err := time.Parse(domain.DateFormat, req.Date); err != nil {
		return nil, &ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"}
	}

	// строго HH:MM, "9:00" не принимается
	clock, err := types.NewTimeStringFromString(req.Time)
	if err != nil || string(clock) != req.Time {
		return nil, &ValidationError{Field: "time", Message: "time must be HH:MM"}
	}

	name := strings.TrimSpace(req.ClientName)
	if name == "" {
		return nil, &ValidationError{Field: "client_name", Message: "client name is required"}
	}

	if strings.TrimSpace(req.ClientPhone) == "" {
		return nil, &ValidationError{Field: "client_phone", Message: "client phone is required"}
	}
	normalized, err := phone.Normalize(req.ClientPhone)
	if err != nil {
		return nil, &ValidationError{Field: "client_phone", Message: "phone must contain 11 digits"}
	}

	email := strings.TrimSpace(req.ClientEmail)
	if err := validate.Var(email, "omitempty,email"); err != nil {
		return nil, &ValidationError{Field: "client_email", Message: "invalid email"}
	}

	return &validated{
		serviceIDs: serviceIDs,
		datetime:   req.Date + "T" + clock.String() + ":00",
		phone:      normalized,
		email:      email,
		name:       name,
	}, nil
}
