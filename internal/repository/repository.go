package repository

import (
	"review-service/internal/metrics"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

// Repositories groups the storage contract of every entity type.
type Repositories struct {
	Driver          DriverRepository
	Passenger       PassengerRepository
	Booking         BookingRepository
	Review          ReviewRepository
	PassengerReview PassengerReviewRepository
	Student         StudentRepository
	Course          CourseRepository
}

func New(db bun.IDB, m *metrics.Metrics, opts ...store.GatewayOption) *Repositories {
	gateway := store.NewGateway(m, opts...)

	return &Repositories{
		Driver:          NewDriverRepository(db, gateway),
		Passenger:       NewPassengerRepository(db, gateway),
		Booking:         NewBookingRepository(db, gateway),
		Review:          NewReviewRepository(db, gateway),
		PassengerReview: NewPassengerReviewRepository(db, gateway),
		Student:         NewStudentRepository(db, gateway),
		Course:          NewCourseRepository(db, gateway),
	}
}
