package model

import (
	"fmt"

	"github.com/uptrace/bun"
)

// ReviewKind tags which variant a booking_reviews row holds.
type ReviewKind string

const (
	ReviewKindBase      ReviewKind = "review"
	ReviewKindPassenger ReviewKind = "passenger"
)

// Review is the shared projection of every row in booking_reviews, whatever
// its kind. Saving through this type never touches variant-only columns.
type Review struct {
	bun.BaseModel `bun:"table:booking_reviews,alias:r"`
	Base

	Kind    ReviewKind `bun:"kind,notnull" json:"kind"`
	Content string     `bun:"content,notnull,nullzero" json:"content" validate:"required"`
	Rating  *float64   `bun:"rating" json:"rating,omitempty"`
}

func (r *Review) String() string {
	return fmt.Sprintf("%s %s %s", r.Content, r.CreatedAt, r.UpdatedAt)
}

// PassengerReview is stored in the same table as Review.
type PassengerReview struct {
	Review `bun:",extend"`

	PassengerComment string `bun:"passenger_comment,nullzero" json:"passengerComment"`
}

type ReviewParams struct {
	Content string
	Rating  *float64
}

func NewReview(p ReviewParams) *Review {
	return &Review{
		Kind:    ReviewKindBase,
		Content: p.Content,
		Rating:  p.Rating,
	}
}

type PassengerReviewParams struct {
	Content          string
	Rating           *float64
	PassengerComment string
}

func NewPassengerReview(p PassengerReviewParams) *PassengerReview {
	return &PassengerReview{
		Review: Review{
			Kind:    ReviewKindPassenger,
			Content: p.Content,
			Rating:  p.Rating,
		},
		PassengerComment: p.PassengerComment,
	}
}

func Rating(v float64) *float64 {
	return &v
}
