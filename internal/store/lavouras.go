package store

import "context"

// LavouraStore persists farmland plot records.
type LavouraStore struct {
	db *DB
}

// NewLavouraStore creates a LavouraStore backed by db.
func NewLavouraStore(db *DB) *LavouraStore {
	return &LavouraStore{db: db}
}

// List returns all plots.
func (s *LavouraStore) List(ctx context.Context) ([]Lavoura, error) {
	var lavouras []Lavoura
	if err := s.db.WithContext(ctx).Find(&lavouras).Error; err != nil {
		return nil, translate(err)
	}
	return lavouras, nil
}

// Get returns the plot with the given id, or ErrNotFound.
func (s *LavouraStore) Get(ctx context.Context, id uint) (*Lavoura, error) {
	var lavoura Lavoura
	if err := s.db.WithContext(ctx).First(&lavoura, id).Error; err != nil {
		return nil, translate(err)
	}
	return &lavoura, nil
}

// Create inserts a new plot.
func (s *LavouraStore) Create(ctx context.Context, lavoura *Lavoura) error {
	if err := s.db.WithContext(ctx).Create(lavoura).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update applies the given column changes to the plot with the given id
// and returns the updated record. Only the provided columns change.
func (s *LavouraStore) Update(ctx context.Context, id uint, changes map[string]any) (*Lavoura, error) {
	res := s.db.WithContext(ctx).Model(&Lavoura{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the plot with the given id, or returns ErrNotFound.
func (s *LavouraStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Lavoura{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
