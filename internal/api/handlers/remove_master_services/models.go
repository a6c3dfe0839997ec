package remove_master_services

// RemoveRequest HTTP request model
type RemoveRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
}

// RemoveResponse HTTP response model
type RemoveResponse struct {
	MasterID int64 `json:"masterId"`
	Removed  int   `json:"removed"`
}
