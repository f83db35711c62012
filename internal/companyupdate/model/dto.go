package model

// RefreshRequest is the body of POST /admin/companies/:slug/refresh.
type RefreshRequest struct {
	Context string `json:"context"`
}

// RefreshResponse acknowledges a scheduled refresh.
type RefreshResponse struct {
	Status    string `json:"status"`
	CompanyID int64  `json:"company_id"`
	Slug      string `json:"slug"`
}

// UpdateResponse wraps a single company update.
type UpdateResponse struct {
	Update *CompanyUpdate `json:"update"`
}

// ListResponse wraps a list of company updates.
type ListResponse struct {
	Updates []CompanyUpdate `json:"updates"`
}
