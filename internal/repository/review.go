package repository

import (
	"context"

	"review-service/internal/model"
	"review-service/internal/store"

	"github.com/uptrace/bun"
)

// ReviewRepository sees every row of booking_reviews through the shared
// columns. It never changes the kind of an existing row.
type ReviewRepository interface {
	store.CRUD[*model.Review]
}

// PassengerReviewRepository sees only passenger rows, with all columns.
type PassengerReviewRepository interface {
	store.CRUD[*model.PassengerReview]
}

type reviewRepository struct {
	*store.Repository[model.Review, *model.Review]
}

func NewReviewRepository(db bun.IDB, gateway *store.Gateway) ReviewRepository {
	return &reviewRepository{
		Repository: store.NewRepository[model.Review](db, gateway, "booking_reviews",
			store.WithImmutableColumns("kind"),
		),
	}
}

func (r *reviewRepository) Save(ctx context.Context, review *model.Review) (*model.Review, error) {
	if review.Kind == "" {
		review.Kind = model.ReviewKindBase
	}
	return r.Repository.Save(ctx, review)
}

type passengerReviewRepository struct {
	*store.Repository[model.PassengerReview, *model.PassengerReview]
}

func NewPassengerReviewRepository(db bun.IDB, gateway *store.Gateway) PassengerReviewRepository {
	return &passengerReviewRepository{
		Repository: store.NewRepository[model.PassengerReview](db, gateway, "booking_reviews",
			store.WithFilter("?TableAlias.kind = ?", model.ReviewKindPassenger),
			store.WithImmutableColumns("kind"),
		),
	}
}

func (r *passengerReviewRepository) Save(ctx context.Context, review *model.PassengerReview) (*model.PassengerReview, error) {
	review.Kind = model.ReviewKindPassenger
	return r.Repository.Save(ctx, review)
}
