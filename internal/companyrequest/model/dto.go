package model

// SubmitRequest is the body of POST /company-requests.
type SubmitRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
}

// RequestResponse wraps a single company request.
type RequestResponse struct {
	Request *CompanyRequest `json:"request"`
}

// ListResponse wraps a list of company requests.
type ListResponse struct {
	Requests []CompanyRequest `json:"requests"`
}
