// Package entity provides base types shared by catalog entities.
package entity

import (
	"time"

	"fowlpos/internal/core/id"
)

// BaseEntity contains fields common to all catalog entities.
// Version implements optimistic locking: updates carry the version they
// read and fail when another writer got there first.
type BaseEntity struct {
	ID           id.ID     `db:"id" json:"id"`
	DeletionMark bool      `db:"deletion_mark" json:"deletionMark"`
	Version      int       `db:"version" json:"version"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity with a fresh ID and version 1.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the modification timestamp.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// GetID returns the entity ID.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}

// GetVersion returns the optimistic lock version.
func (b *BaseEntity) GetVersion() int {
	return b.Version
}

// Validatable is implemented by entities that validate themselves before persistence.
type Validatable interface {
	Validate() error
}
