package domain

const (
	// DateFormat формат даты в API и у провайдера
	DateFormat = "2006-01-02"

	// ProviderDateTimeFormat формат datetime записи в YClients
	ProviderDateTimeFormat = "2006-01-02T15:04:05"
)

// Значения уведомлений по умолчанию (часы до визита, 0 - не уведомлять)
const (
	DefaultNotifyBySMSHours   = 24
	DefaultNotifyByEmailHours = 0
)
