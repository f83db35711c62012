// Package model provides domain models for the company module.
package model

import (
	"time"
)

// Placeholder is stored for required descriptive fields that enrichment could not supply.
const Placeholder = "Data needs review."

// Company represents a canonical company record.
// Matches the companies table schema.
type Company struct {
	ID                int64     `gorm:"primaryKey;column:id;autoIncrement"                          json:"id"`
	Name              string    `gorm:"column:name;type:varchar(255);not null"                      json:"name"`
	Slug              string    `gorm:"column:slug;type:varchar(255);not null;uniqueIndex"          json:"slug"`
	Description       *string   `gorm:"column:description;type:text"                                json:"description"`
	Logo              *string   `gorm:"column:logo;type:text"                                       json:"logo"`
	Website           *string   `gorm:"column:website;type:text"                                    json:"website"`
	Headquarters      *string   `gorm:"column:headquarters;type:text"                               json:"headquarters"`
	PrimaryRevenue    string    `gorm:"column:primary_revenue;type:text;not null"                   json:"primary_revenue"`
	RevenueBreakdown  string    `gorm:"column:revenue_breakdown;type:text;not null;default:'{}'"    json:"revenue_breakdown"`
	BusinessModel     string    `gorm:"column:business_model;type:text;not null"                    json:"business_model"`
	RequestedByUserID *int64    `gorm:"column:requested_by_user_id"                                 json:"requested_by_user_id,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;autoCreateTime"                   json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Company) TableName() string {
	return "companies"
}
