package create_booking

// Request модель запроса на создание записи
type Request struct {
	StaffID     int64    // ID мастера (совпадает с ID сотрудника YClients)
	ServiceIDs  []string // ID услуг YClients, все попадают в одну запись
	Date        string   // Дата в формате YYYY-MM-DD
	Time        string   // Время начала в формате HH:MM
	ClientName  string
	ClientPhone string
	ClientEmail string  // опционально
	Comment     *string // опционально
}

// Response модель ответа с созданной записью
type Response struct {
	BookingID   int64
	BookingHash string
	StaffID     int64
	Datetime    string // время записи в том виде, в котором оно ушло провайдеру
	Phone       string // нормализованный телефон
}

// Config настройки уведомлений, передаваемые провайдеру
type Config struct {
	NotifyBySMSHours   int
	NotifyByEmailHours int
}
