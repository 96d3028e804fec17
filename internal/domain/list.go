// Package domain holds types shared across domain services.
package domain

import "fowlpos/internal/core/id"

// ListFilter is the common filter for catalog list operations.
type ListFilter struct {
	Search         string
	IDs            []id.ID
	IncludeDeleted bool
	OrderBy        string // "field" or "-field" for descending
	Limit          int
	Offset         int
}

// ListResult wraps a page of items with the unpaginated total.
type ListResult[T any] struct {
	Items      []T
	TotalCount int64
	Limit      int
	Offset     int
}
