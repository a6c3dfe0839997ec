package get_staff_dates

// DatesResponse HTTP response model
type DatesResponse struct {
	StaffID int64    `json:"staffId"`
	Dates   []string `json:"dates"`
	Warning string   `json:"warning,omitempty"`
}
