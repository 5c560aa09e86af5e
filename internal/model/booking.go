package model

import (
	"time"

	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusScheduled       BookingStatus = "scheduled"
	BookingStatusAssigningDriver BookingStatus = "assigning_driver"
	BookingStatusCarArrived      BookingStatus = "car_arrived"
	BookingStatusInRide          BookingStatus = "in_ride"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusScheduled,
		BookingStatusAssigningDriver,
		BookingStatusCarArrived,
		BookingStatusInRide,
		BookingStatusCompleted,
		BookingStatusCancelled:
		return true
	}
	return false
}

// Booking owns at most one Review. A new Review attached to a Booking is
// inserted together with it; deleting the Booking leaves the Review in place.
type Booking struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`
	Base

	BookingStatus BookingStatus `bun:"booking_status,notnull" json:"bookingStatus"`
	StartTime     time.Time     `bun:"start_time,nullzero" json:"startTime"`
	EndTime       time.Time     `bun:"end_time,nullzero" json:"endTime"`
	TotalDistance int64         `bun:"total_distance,notnull" json:"totalDistance"`

	ReviewID *int    `bun:"review_id,unique" json:"reviewId,omitempty"`
	Review   *Review `bun:"rel:belongs-to,join:review_id=id,on_delete:SET NULL" json:"review,omitempty"`

	DriverID *int    `bun:"driver_id" json:"driverId,omitempty"`
	Driver   *Driver `bun:"rel:belongs-to,join:driver_id=id" json:"driver,omitempty"`

	PassengerID *int       `bun:"passenger_id" json:"passengerId,omitempty"`
	Passenger   *Passenger `bun:"rel:belongs-to,join:passenger_id=id" json:"passenger,omitempty"`
}

type BookingParams struct {
	Status        BookingStatus
	StartTime     time.Time
	EndTime       time.Time
	TotalDistance int64
	Review        *Review
	Driver        *Driver
	Passenger     *Passenger
}

// NewBooking defaults Status to scheduled.
func NewBooking(p BookingParams) *Booking {
	status := p.Status
	if status == "" {
		status = BookingStatusScheduled
	}

	b := &Booking{
		BookingStatus: status,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		TotalDistance: p.TotalDistance,
	}
	b.SetReview(p.Review)
	b.SetDriver(p.Driver)
	b.SetPassenger(p.Passenger)
	return b
}

func (b *Booking) SetReview(r *Review) {
	b.Review = r
	b.ReviewID = nil
	if r != nil && !r.IsNew() {
		id := r.ID
		b.ReviewID = &id
	}
}

func (b *Booking) SetDriver(d *Driver) {
	b.Driver = d
	b.DriverID = nil
	if d != nil && !d.IsNew() {
		id := d.ID
		b.DriverID = &id
	}
}

func (b *Booking) SetPassenger(p *Passenger) {
	b.Passenger = p
	b.PassengerID = nil
	if p != nil && !p.IsNew() {
		id := p.ID
		b.PassengerID = &id
	}
}
