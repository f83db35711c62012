package model

import (
	"fmt"

	"github.com/festy23/company_insights/internal/workflow"
)

// entity names the company request in conflict errors.
const entity = "company request"

// ErrRequestNotFound indicates that the company request does not exist or is not visible to the caller.
var ErrRequestNotFound = fmt.Errorf("company request %w", workflow.ErrNotFound)

// NewConflict reports that request id is in status current.
func NewConflict(id int64, current Status) error {
	return workflow.NewConflictError(entity, id, string(current))
}
