package model

import "time"

// Base carries the surrogate key and audit timestamps shared by every table.
// The timestamps are written by store.Gateway, never by callers.
type Base struct {
	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`
}

func (b *Base) GetID() int {
	return b.ID
}

func (b *Base) IsNew() bool {
	return b.ID == 0
}

func (b *Base) MarkCreated(now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
}

func (b *Base) MarkUpdated(now time.Time) {
	b.UpdatedAt = now
}

func (b *Base) LastUpdated() time.Time {
	return b.UpdatedAt
}

func (b *Base) Audit() (createdAt, updatedAt time.Time) {
	return b.CreatedAt, b.UpdatedAt
}

// Forget returns a record to its unsaved state after the transaction that
// inserted it rolled back.
func (b *Base) Forget() {
	b.ID = 0
	b.CreatedAt = time.Time{}
	b.UpdatedAt = time.Time{}
}
