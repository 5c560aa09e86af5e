package driver

import (
	"context"
	"errors"
	"fmt"

	"review-service/internal/model"
	"review-service/internal/repository"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrInvalidInput   = errors.New("invalid input")
)

type Service interface {
	CreateDriver(ctx context.Context, params model.DriverParams) (*model.Driver, error)
	GetAllDrivers(ctx context.Context) ([]*model.Driver, error)
	GetDriverByID(ctx context.Context, id int) (*model.Driver, error)
	GetDriverByIDAndLicense(ctx context.Context, id int, licenseNumber string) (*model.Driver, error)
	UpdateDriver(ctx context.Context, id int, params model.DriverParams) (*model.Driver, error)
	DeleteDriver(ctx context.Context, id int) error
	GetDriverBookings(ctx context.Context, id int) ([]*model.Booking, error)
}

type service struct {
	drivers  repository.DriverRepository
	bookings repository.BookingRepository
}

func NewService(drivers repository.DriverRepository, bookings repository.BookingRepository) Service {
	return &service{
		drivers:  drivers,
		bookings: bookings,
	}
}

func (s *service) CreateDriver(ctx context.Context, params model.DriverParams) (*model.Driver, error) {
	return s.drivers.Save(ctx, model.NewDriver(params))
}

func (s *service) GetAllDrivers(ctx context.Context) ([]*model.Driver, error) {
	return s.drivers.FindAll(ctx)
}

func (s *service) GetDriverByID(ctx context.Context, id int) (*model.Driver, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	d, err := s.drivers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}
	return d, nil
}

func (s *service) GetDriverByIDAndLicense(ctx context.Context, id int, licenseNumber string) (*model.Driver, error) {
	if id <= 0 || licenseNumber == "" {
		return nil, ErrInvalidInput
	}
	d, err := s.drivers.FindByIDAndLicenseNumber(ctx, id, licenseNumber)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}
	return d, nil
}

func (s *service) UpdateDriver(ctx context.Context, id int, params model.DriverParams) (*model.Driver, error) {
	d, err := s.GetDriverByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = params.Name
	d.LicenseNumber = params.LicenseNumber
	return s.drivers.Save(ctx, d)
}

func (s *service) DeleteDriver(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}
	return s.drivers.DeleteByID(ctx, id)
}

func (s *service) GetDriverBookings(ctx context.Context, id int) ([]*model.Booking, error) {
	if _, err := s.GetDriverByID(ctx, id); err != nil {
		return nil, err
	}
	bookings, err := s.bookings.FindAllByDriverID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("bookings of driver %d: %w", id, err)
	}
	return bookings, nil
}
