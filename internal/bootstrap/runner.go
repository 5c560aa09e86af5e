package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"review-service/internal/model"
	"review-service/internal/repository"
)

const (
	sampleDriverName    = "ABCD"
	sampleLicenseNumber = "1"
	sampleReviewContent = "Excellent"
	sampleReviewRating  = 5.0
)

// Runner seeds a driver with one reviewed booking and reads the driver back
// through the license lookup.
type Runner struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

func NewRunner(repos *repository.Repositories, logger *slog.Logger) *Runner {
	return &Runner{
		repos:  repos,
		logger: logger,
	}
}

// Run is safe to repeat: an existing sample driver is reused and no second
// booking is created for it.
func (r *Runner) Run(ctx context.Context) (*model.Driver, error) {
	driver, err := r.repos.Driver.FindByLicenseNumber(ctx, sampleLicenseNumber)
	if err != nil {
		return nil, fmt.Errorf("look up sample driver: %w", err)
	}

	if driver == nil {
		driver, err = r.repos.Driver.Save(ctx, model.NewDriver(model.DriverParams{
			Name:          sampleDriverName,
			LicenseNumber: sampleLicenseNumber,
		}))
		if err != nil {
			return nil, fmt.Errorf("save sample driver: %w", err)
		}
		r.logger.Info("sample driver saved", "id", driver.ID)

		booking, err := r.repos.Booking.Save(ctx, model.NewBooking(model.BookingParams{
			Review: model.NewReview(model.ReviewParams{
				Content: sampleReviewContent,
				Rating:  model.Rating(sampleReviewRating),
			}),
			Driver: driver,
		}))
		if err != nil {
			return nil, fmt.Errorf("save sample booking: %w", err)
		}
		r.logger.Info("sample booking saved", "id", booking.ID, "review_id", booking.Review.ID)
	}

	found, err := r.repos.Driver.FindByIDAndLicenseNumber(ctx, driver.ID, sampleLicenseNumber)
	if err != nil {
		return nil, fmt.Errorf("find sample driver by license: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("sample driver %d not found by license number %q", driver.ID, sampleLicenseNumber)
	}

	r.logger.Info("driver found by id and license number", "name", found.Name)
	return found, nil
}
