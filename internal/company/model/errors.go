package model

import (
	"errors"
	"fmt"

	"github.com/festy23/company_insights/internal/workflow"
)

var (
	// ErrCompanyNotFound indicates that the requested company does not exist.
	ErrCompanyNotFound = fmt.Errorf("company %w", workflow.ErrNotFound)
	// ErrCompanyExists indicates that a company with the same slug already exists.
	ErrCompanyExists = errors.New("company with this slug already exists")
	// ErrEmptySlug indicates that a company name produced no usable slug.
	ErrEmptySlug = &workflow.ValidationError{Field: "name", Message: "produces an empty slug"}
)
