package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"review-service/internal/model"
	"review-service/internal/repository"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidInput    = errors.New("invalid input")
)

type CreateBookingInput struct {
	Status        model.BookingStatus
	StartTime     time.Time
	EndTime       time.Time
	TotalDistance int64
	DriverID      int
	PassengerID   int
	Review        *model.ReviewParams
}

type Service interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error)
	GetBookingByID(ctx context.Context, id int) (*model.Booking, error)
	CreatePassenger(ctx context.Context) (*model.Passenger, error)
	GetReviewByID(ctx context.Context, id int) (*model.Review, error)
	DeleteReview(ctx context.Context, id int) error
	CreatePassengerReview(ctx context.Context, params model.PassengerReviewParams) (*model.PassengerReview, error)
	GetPassengerReviewByID(ctx context.Context, id int) (*model.PassengerReview, error)
}

type service struct {
	repos *repository.Repositories
}

func NewService(repos *repository.Repositories) Service {
	return &service{repos: repos}
}

// CreateBooking resolves the referenced driver and passenger, then saves the
// booking together with its optional new review.
func (s *service) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, in.Status)
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() && in.EndTime.Before(in.StartTime) {
		return nil, fmt.Errorf("%w: end time before start time", ErrInvalidInput)
	}

	params := model.BookingParams{
		Status:        in.Status,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		TotalDistance: in.TotalDistance,
	}

	if in.DriverID != 0 {
		driver, err := s.repos.Driver.FindByID(ctx, in.DriverID)
		if err != nil {
			return nil, err
		}
		if driver == nil {
			return nil, fmt.Errorf("%w: driver %d does not exist", ErrInvalidInput, in.DriverID)
		}
		params.Driver = driver
	}

	if in.PassengerID != 0 {
		passenger, err := s.repos.Passenger.FindByID(ctx, in.PassengerID)
		if err != nil {
			return nil, err
		}
		if passenger == nil {
			return nil, fmt.Errorf("%w: passenger %d does not exist", ErrInvalidInput, in.PassengerID)
		}
		params.Passenger = passenger
	}

	if in.Review != nil {
		params.Review = model.NewReview(*in.Review)
	}

	return s.repos.Booking.Save(ctx, model.NewBooking(params))
}

func (s *service) GetBookingByID(ctx context.Context, id int) (*model.Booking, error) {
	b, err := s.repos.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *service) CreatePassenger(ctx context.Context) (*model.Passenger, error) {
	return s.repos.Passenger.Save(ctx, model.NewPassenger())
}

func (s *service) GetReviewByID(ctx context.Context, id int) (*model.Review, error) {
	r, err := s.repos.Review.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReviewNotFound
	}
	return r, nil
}

func (s *service) DeleteReview(ctx context.Context, id int) error {
	return s.repos.Review.DeleteByID(ctx, id)
}

func (s *service) CreatePassengerReview(ctx context.Context, params model.PassengerReviewParams) (*model.PassengerReview, error) {
	return s.repos.PassengerReview.Save(ctx, model.NewPassengerReview(params))
}

func (s *service) GetPassengerReviewByID(ctx context.Context, id int) (*model.PassengerReview, error) {
	r, err := s.repos.PassengerReview.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReviewNotFound
	}
	return r, nil
}
