package store

import "context"

// ProdutorStore persists rural producer records. CPF carries a unique
// index; collisions surface as ErrDuplicate.
type ProdutorStore struct {
	db *DB
}

// NewProdutorStore creates a ProdutorStore backed by db.
func NewProdutorStore(db *DB) *ProdutorStore {
	return &ProdutorStore{db: db}
}

// List returns all producers.
func (s *ProdutorStore) List(ctx context.Context) ([]ProdutorRural, error) {
	var produtores []ProdutorRural
	if err := s.db.WithContext(ctx).Find(&produtores).Error; err != nil {
		return nil, translate(err)
	}
	return produtores, nil
}

// Get returns the producer with the given id, or ErrNotFound.
func (s *ProdutorStore) Get(ctx context.Context, id uint) (*ProdutorRural, error) {
	var produtor ProdutorRural
	if err := s.db.WithContext(ctx).First(&produtor, id).Error; err != nil {
		return nil, translate(err)
	}
	return &produtor, nil
}

// Create inserts a new producer.
func (s *ProdutorStore) Create(ctx context.Context, produtor *ProdutorRural) error {
	if err := s.db.WithContext(ctx).Create(produtor).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update applies the given column changes to the producer with the given
// id and returns the updated record. Only the provided columns change.
func (s *ProdutorStore) Update(ctx context.Context, id uint, changes map[string]any) (*ProdutorRural, error) {
	res := s.db.WithContext(ctx).Model(&ProdutorRural{}).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the producer with the given id, or returns ErrNotFound.
func (s *ProdutorStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&ProdutorRural{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
