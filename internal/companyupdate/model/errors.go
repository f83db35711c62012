package model

import (
	"fmt"

	"github.com/festy23/company_insights/internal/workflow"
)

const entity = "company update"

// ErrUpdateNotFound indicates that the company update does not exist.
var ErrUpdateNotFound = fmt.Errorf("company update %w", workflow.ErrNotFound)

// NewConflict reports that update id is in status current.
func NewConflict(id int64, current Status) error {
	return workflow.NewConflictError(entity, id, string(current))
}
