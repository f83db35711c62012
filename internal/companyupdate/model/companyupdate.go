// Package model provides domain models and DTOs for the company update module.
package model

import (
	"time"

	"github.com/festy23/company_insights/internal/workflow"
)

// Status is the review state of a staged company update.
type Status string

const (
	StatusPendingReview Status = "pending_review"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
)

// Review holds every legal company update transition. Both outcomes are terminal.
var Review = workflow.NewMachine(
	workflow.Transition[Status]{From: StatusPendingReview, To: StatusApproved},
	workflow.Transition[Status]{From: StatusPendingReview, To: StatusRejected},
)

// MaxContextLength bounds the research text an admin may attach to a refresh.
const MaxContextLength = 20000

// ParseStatus validates a status filter value.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", &workflow.ValidationError{Field: "status", Message: "unknown status " + s}
	}
}

// CompanyUpdate is an enrichment result staged for admin review.
// Matches the company_updates table schema.
type CompanyUpdate struct {
	ID              int64      `gorm:"primaryKey;column:id;autoIncrement"             json:"id"`
	CompanyID       int64      `gorm:"column:company_id;not null;index"               json:"company_id"`
	FetchedData     string     `gorm:"column:fetched_data;type:text;not null"         json:"fetched_data"`
	Status          Status     `gorm:"column:status;type:varchar(32);not null;index"  json:"status"`
	RequesterUserID int64      `gorm:"column:requester_user_id;not null"              json:"requester_user_id"`
	ReviewerUserID  *int64     `gorm:"column:reviewer_user_id"                        json:"reviewer_user_id"`
	CreatedAt       time.Time  `gorm:"column:created_at;not null;autoCreateTime"      json:"created_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"                             json:"reviewed_at"`
}

// TableName specifies the table name for GORM.
func (CompanyUpdate) TableName() string {
	return "company_updates"
}
