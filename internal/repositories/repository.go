package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Pagination selects one page of a listing. Zero values fall back to the
// first page of DefaultPerPage rows.
type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Pagination) apply(db *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return db.Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage)
}

// Page is one page of a listing together with the unpaginated total.
type Page[T any] struct {
	Items   []T
	Total   int64
	Page    int
	PerPage int
}

func newPage[T any](items []T, total int64, p Pagination) *Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Total: total, Page: p.Page, PerPage: p.PerPage}
}

// translate maps gorm's not-found error to the given sentinel and wraps
// everything else with op.
func translate(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func scope(db *gorm.DB, includeDeleted bool) *gorm.DB {
	if includeDeleted {
		return db.Unscoped()
	}
	return db
}
