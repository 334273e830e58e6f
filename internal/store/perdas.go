package store

import (
	"context"

	"gorm.io/gorm/clause"
)

// PerdaStore persists crop-loss events.
type PerdaStore struct {
	db *DB
}

// NewPerdaStore creates a PerdaStore backed by db.
func NewPerdaStore(db *DB) *PerdaStore {
	return &PerdaStore{db: db}
}

// List returns all loss events.
func (s *PerdaStore) List(ctx context.Context) ([]Perda, error) {
	var perdas []Perda
	if err := s.db.WithContext(ctx).Find(&perdas).Error; err != nil {
		return nil, translate(err)
	}
	return perdas, nil
}

// Get returns the loss event with the given id, or ErrNotFound.
func (s *PerdaStore) Get(ctx context.Context, id uint) (*Perda, error) {
	var perda Perda
	if err := s.db.WithContext(ctx).First(&perda, id).Error; err != nil {
		return nil, translate(err)
	}
	return &perda, nil
}

// Create inserts a new loss event. Associations are never upserted; the
// referenced produtor and lavoura must already exist.
func (s *PerdaStore) Create(ctx context.Context, perda *Perda) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(perda).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update applies the given column changes to the loss event with the given
// id and returns the updated record. Only the provided columns change.
func (s *PerdaStore) Update(ctx context.Context, id uint, changes map[string]any) (*Perda, error) {
	res := s.db.WithContext(ctx).Model(&Perda{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the loss event with the given id, or returns ErrNotFound.
func (s *PerdaStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Perda{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
