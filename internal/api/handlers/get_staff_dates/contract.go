package get_staff_dates

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
)

type AvailabilityService interface {
	AvailableDates(ctx context.Context, staffID int64) (*availability.DatesResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
