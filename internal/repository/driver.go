package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"review-service/internal/model"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

type DriverRepository interface {
	store.CRUD[*model.Driver]

	// FindByIDAndLicenseNumber runs hand-written SQL against the drivers
	// table. Column names are the database ones.
	FindByIDAndLicenseNumber(ctx context.Context, id int, licenseNumber string) (*model.Driver, error)
	// FindByIDAndLicenseNumberQuery is the same lookup through the query
	// builder, scoped to the model's table.
	FindByIDAndLicenseNumberQuery(ctx context.Context, id int, licenseNumber string) (*model.Driver, error)
	FindByLicenseNumber(ctx context.Context, licenseNumber string) (*model.Driver, error)
}

const findDriverByIDAndLicenseNumberSQL = `SELECT * FROM drivers WHERE id = ? AND license_number = ?`

type driverRepository struct {
	*store.Repository[model.Driver, *model.Driver]
}

func NewDriverRepository(db bun.IDB, gateway *store.Gateway) DriverRepository {
	return &driverRepository{
		Repository: store.NewRepository[model.Driver](db, gateway, "drivers",
			store.WithRelations("Bookings"),
		),
	}
}

func (r *driverRepository) FindByIDAndLicenseNumber(ctx context.Context, id int, licenseNumber string) (*model.Driver, error) {
	start := time.Now()
	driver := new(model.Driver)
	err := r.DB().NewRaw(findDriverByIDAndLicenseNumberSQL, id, licenseNumber).Scan(ctx, driver)

	r.Record(ctx, "select", start, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, store.Classify("select", r.Table(), err)
	}
	return driver, nil
}

func (r *driverRepository) FindByIDAndLicenseNumberQuery(ctx context.Context, id int, licenseNumber string) (*model.Driver, error) {
	return r.FindOneWhere(ctx, "?TableAlias.id = ? AND ?TableAlias.license_number = ?", id, licenseNumber)
}

func (r *driverRepository) FindByLicenseNumber(ctx context.Context, licenseNumber string) (*model.Driver, error) {
	return r.FindOneWhere(ctx, "?TableAlias.license_number = ?", licenseNumber)
}
