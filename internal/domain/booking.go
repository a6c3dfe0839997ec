package domain

// BookingResult подтверждение записи от провайдера
type BookingResult struct {
	BookingID   int64
	BookingHash string
}
