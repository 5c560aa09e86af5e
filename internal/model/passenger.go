package model

import "github.com/uptrace/bun"

type Passenger struct {
	bun.BaseModel `bun:"table:passengers,alias:p"`
	Base

	Bookings []*Booking `bun:"rel:has-many,join:id=passenger_id" json:"bookings,omitempty"`
}

func NewPassenger() *Passenger {
	return &Passenger{}
}
