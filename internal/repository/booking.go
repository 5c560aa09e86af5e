package repository

import (
	"context"
	"fmt"

	"review-service/internal/model"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

type BookingRepository interface {
	store.CRUD[*model.Booking]

	FindAllByDriverID(ctx context.Context, driverID int) ([]*model.Booking, error)
}

type bookingRepository struct {
	*store.Repository[model.Booking, *model.Booking]
}

func NewBookingRepository(db bun.IDB, gateway *store.Gateway) BookingRepository {
	return &bookingRepository{
		Repository: store.NewRepository[model.Booking](db, gateway, "bookings",
			store.WithRelations("Review", "Driver", "Passenger"),
		),
	}
}

// Save inserts a new attached Review in the same transaction as the Booking.
// Driver and Passenger must already be persisted.
func (r *bookingRepository) Save(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	wasNew := booking.IsNew()
	newReview := booking.Review != nil && booking.Review.IsNew()

	err := r.DB().RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if booking.Review != nil {
			if booking.Review.IsNew() {
				if booking.Review.Kind == "" {
					booking.Review.Kind = model.ReviewKindBase
				}
				if err := r.Gateway().Insert(ctx, tx, "booking_reviews", booking.Review); err != nil {
					return err
				}
			}
			booking.SetReview(booking.Review)
		}

		if booking.Driver != nil {
			if booking.Driver.IsNew() {
				return transient("driver")
			}
			booking.SetDriver(booking.Driver)
		}

		if booking.Passenger != nil {
			if booking.Passenger.IsNew() {
				return transient("passenger")
			}
			booking.SetPassenger(booking.Passenger)
		}

		_, err := r.Repository.WithDB(tx).Save(ctx, booking)
		return err
	})
	if err != nil {
		// The transaction rolled back, so neither the booking nor a cascaded
		// review was stored.
		if wasNew {
			booking.Forget()
		}
		if newReview {
			booking.Review.Forget()
			booking.ReviewID = nil
		}
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepository) FindAllByDriverID(ctx context.Context, driverID int) ([]*model.Booking, error) {
	return r.FindWhere(ctx, "?TableAlias.driver_id = ?", driverID)
}

func transient(association string) error {
	return &store.Error{
		Op:    "save",
		Table: "bookings",
		Kind:  store.ErrTransientAssociation,
		Err:   fmt.Errorf("%s must be saved before the booking", association),
	}
}
