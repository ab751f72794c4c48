package usecase

import (
	"context"

	"carvalue_backend/internal/feature/reports/domain/entity"
)

// EstimateQuery describes the vehicle a client wants a price estimate for.
type EstimateQuery struct {
	Make    string
	Model   string
	Year    int
	Mileage int
	Lng     float64
	Lat     float64
}

// ReportRepository abstracts the persistence layer for report entities.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type ReportRepository interface {
	// Create persists a new report to the storage.
	Create(ctx context.Context, report *entity.Report) error

	// FindByID retrieves a report matching the specified ID.
	// It returns ErrReportNotFound if the report does not exist.
	FindByID(ctx context.Context, id uint) (*entity.Report, error)

	// Save persists changes to an existing report.
	Save(ctx context.Context, report *entity.Report) error

	// Estimate averages the price of approved reports comparable to the
	// query. It returns nil when no comparable reports exist.
	Estimate(ctx context.Context, q EstimateQuery) (*float64, error)
}

// ReportsUsecase provides business logic for report operations.
type ReportsUsecase struct {
	repo ReportRepository
}

// NewReportsUsecase creates a new ReportsUsecase with the given repository.
func NewReportsUsecase(repo ReportRepository) *ReportsUsecase {
	return &ReportsUsecase{repo: repo}
}

// CreateReport stores a new, unapproved report owned by the given user.
func (u *ReportsUsecase) CreateReport(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error) {
	report.ID = 0
	report.UserID = userID
	report.Approved = false
	if err := u.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ChangeApproval sets the approval flag of an existing report.
func (u *ReportsUsecase) ChangeApproval(ctx context.Context, id uint, approved bool) (*entity.Report, error) {
	report, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Approved = approved
	if err := u.repo.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// EstimatePrice returns the average price of comparable approved reports,
// or nil when there is nothing to compare against.
func (u *ReportsUsecase) EstimatePrice(ctx context.Context, q EstimateQuery) (*float64, error) {
	return u.repo.Estimate(ctx, q)
}
