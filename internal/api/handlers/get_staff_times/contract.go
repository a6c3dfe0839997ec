package get_staff_times

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

type AvailabilityService interface {
	AvailableTimes(ctx context.Context, staffID int64, date string, variantID *int64) (*availability.TimesResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
