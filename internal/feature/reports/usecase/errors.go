// Package usecase implements the business logic for the reports feature.
package usecase

import "errors"

var (
	// ErrReportNotFound is returned when a report cannot be found by ID.
	ErrReportNotFound = errors.New("report not found")
)
