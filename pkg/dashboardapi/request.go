package dashboardapi

type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}
