package model

import "github.com/uptrace/bun"

type Driver struct {
	bun.BaseModel `bun:"table:drivers,alias:d"`
	Base

	Name          string     `bun:"name" json:"name" validate:"required"`
	LicenseNumber string     `bun:"license_number,notnull,unique,nullzero" json:"licenseNumber" validate:"required"`
	Bookings      []*Booking `bun:"rel:has-many,join:id=driver_id" json:"bookings,omitempty"`
}

type DriverParams struct {
	Name          string
	LicenseNumber string
}

func NewDriver(p DriverParams) *Driver {
	return &Driver{
		Name:          p.Name,
		LicenseNumber: p.LicenseNumber,
	}
}
