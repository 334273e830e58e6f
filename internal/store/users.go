package store

import "context"

// UserStore persists credential records. It is the only component allowed
// to touch the users table; the auth service never caches its results
// beyond a single request.
type UserStore struct {
	db *DB
}

// NewUserStore creates a UserStore backed by db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// FindByUsername returns the user with the given username, or ErrNotFound.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create inserts a new user. A username collision — even one that appears
// only at insert time — is reported as ErrDuplicate; the unique index is
// the source of truth, not any earlier existence check.
func (s *UserStore) Create(ctx context.Context, user *User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}
