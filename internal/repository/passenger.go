package repository

import (
	"review-service/internal/model"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

type PassengerRepository interface {
	store.CRUD[*model.Passenger]
}

func NewPassengerRepository(db bun.IDB, gateway *store.Gateway) PassengerRepository {
	return store.NewRepository[model.Passenger](db, gateway, "passengers")
}
