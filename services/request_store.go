package services

import (
	"context"
	"errors"
	"fmt"

	"faculty-management-api/models"

	"gorm.io/gorm"
)

// ListFilter narrows a scoped list.
type ListFilter struct {
	Status models.RequestStatus
	Limit  int
	Offset int
}

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// RequestStore persists one reviewable request kind.
type RequestStore[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id string) (*T, error)
	// List returns the page selected by scope and filter plus the scoped total.
	List(ctx context.Context, scope Scope, filter ListFilter) ([]T, int64, error)
	// Transition writes columns only if the stored status still equals from,
	// appending history in the same write. It returns ErrConflict otherwise.
	Transition(ctx context.Context, entity *T, from models.RequestStatus, columns map[string]interface{}, history *models.ReviewHistory) error
	// UpdatePending writes columns only while the request is pending.
	UpdatePending(ctx context.Context, entity *T, columns map[string]interface{}) error
	// DeletePending removes the request only while it is pending.
	DeletePending(ctx context.Context, id string) error
}

type reviewablePtr[T any] interface {
	*T
	models.Reviewable
}

// GormRequestStore is the MySQL-backed RequestStore.
type GormRequestStore[T any, PT reviewablePtr[T]] struct {
	db       *gorm.DB
	preloads []string
}

func NewGormRequestStore[T any, PT reviewablePtr[T]](db *gorm.DB, preloads ...string) *GormRequestStore[T, PT] {
	return &GormRequestStore[T, PT]{db: db, preloads: preloads}
}

func (s *GormRequestStore[T, PT]) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	return q
}

func (s *GormRequestStore[T, PT]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create %s: %w", PT(entity).RequestKind(), err)
	}
	return nil
}

func (s *GormRequestStore[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := s.query(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(string(PT(&entity).RequestKind()))
		}
		return nil, fmt.Errorf("load %s %s: %w", PT(&entity).RequestKind(), id, err)
	}
	return &entity, nil
}

func (s *GormRequestStore[T, PT]) List(ctx context.Context, scope Scope, filter ListFilter) ([]T, int64, error) {
	filter = filter.normalized()

	q := scope.ApplyRequests(s.db.WithContext(ctx).Model(new(T)))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]T, 0)
	q = scope.ApplyRequests(s.query(ctx).Model(new(T)))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("submitted_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *GormRequestStore[T, PT]) Transition(ctx context.Context, entity *T, from models.RequestStatus, columns map[string]interface{}, history *models.ReviewHistory) error {
	id := PT(entity).GetID()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(new(T)).
			Where("id = ? AND status = ?", id, from).
			Updates(columns)
		if res.Error != nil {
			return fmt.Errorf("update %s %s: %w", PT(entity).RequestKind(), id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}
		if history != nil {
			if err := tx.Create(history).Error; err != nil {
				return fmt.Errorf("log review history: %w", err)
			}
		}
		return nil
	})
}

func (s *GormRequestStore[T, PT]) UpdatePending(ctx context.Context, entity *T, columns map[string]interface{}) error {
	id := PT(entity).GetID()
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(columns)
	if res.Error != nil {
		return fmt.Errorf("update %s %s: %w", PT(entity).RequestKind(), id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *GormRequestStore[T, PT]) DeletePending(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
