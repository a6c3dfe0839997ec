package apply_reconciliation

// SyncResponse HTTP response model
type SyncResponse struct {
	MasterID  int64   `json:"masterId"`
	Requested []int64 `json:"requestedServiceIds"`
	Added     int     `json:"added"`
}
