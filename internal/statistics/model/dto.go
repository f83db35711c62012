// Package model provides data transfer objects for statistics module.
package model

// RequestStatistics counts company requests by status.
type RequestStatistics struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Approved   int `json:"approved"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`
}

// UpdateStatistics counts staged company updates by status.
type UpdateStatistics struct {
	Total         int `json:"total"`
	PendingReview int `json:"pending_review"`
	Approved      int `json:"approved"`
	Rejected      int `json:"rejected"`
}

// CompanyStatistics counts canonical companies.
type CompanyStatistics struct {
	Total int `json:"total"`
	// NeedsReview counts companies still carrying the placeholder description.
	NeedsReview int `json:"needs_review"`
}

// PipelineStatisticsResponse represents response for pipeline statistics.
type PipelineStatisticsResponse struct {
	Requests  RequestStatistics `json:"requests"`
	Updates   UpdateStatistics  `json:"updates"`
	Companies CompanyStatistics `json:"companies"`
}
