// Package model provides domain models and DTOs for the company request module.
package model

import (
	"time"

	"github.com/festy23/company_insights/internal/workflow"
)

// Status is the lifecycle state of a company request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusFailed     Status = "failed"
)

// Lifecycle holds every legal company request transition.
var Lifecycle = workflow.NewMachine(
	workflow.Transition[Status]{From: StatusPending, To: StatusProcessing},
	workflow.Transition[Status]{From: StatusFailed, To: StatusProcessing},
	workflow.Transition[Status]{From: StatusPending, To: StatusRejected},
	workflow.Transition[Status]{From: StatusProcessing, To: StatusApproved},
	workflow.Transition[Status]{From: StatusProcessing, To: StatusFailed},
)

// Deletable lists the statuses in which the owner may withdraw a request.
var Deletable = []Status{StatusPending, StatusFailed, StatusRejected}

// MaxCompanyNameLength bounds the submitted company name, in characters.
const MaxCompanyNameLength = 255

// ParseStatus validates a status filter value.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected, StatusFailed:
		return st, nil
	default:
		return "", &workflow.ValidationError{Field: "status", Message: "unknown status " + s}
	}
}

// CompanyRequest represents a user's ask to add a company.
// Matches the company_requests table schema.
type CompanyRequest struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement"                   json:"id"`
	UserID      int64     `gorm:"column:user_id;not null;index"                        json:"user_id"`
	CompanyName string    `gorm:"column:company_name;type:varchar(255);not null"       json:"company_name"`
	Status      Status    `gorm:"column:status;type:varchar(32);not null;index"        json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime"            json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime"            json:"updated_at"`

	// Attempt counts entries into processing. Background work is bound to the
	// attempt it was scheduled for and may only finish that one.
	Attempt   int64      `gorm:"column:attempt;not null;default:0" json:"-"`
	// StartedAt is set when background work for the current attempt begins.
	StartedAt *time.Time `gorm:"column:started_at"                   json:"-"`
}

// TableName specifies the table name for GORM.
func (CompanyRequest) TableName() string {
	return "company_requests"
}
