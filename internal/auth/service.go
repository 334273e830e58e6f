// Package auth implements the authentication core: registration, login with
// token issuance, and token verification. It composes the credential store,
// the password hasher, and the token codec; it holds no state of its own
// beyond those collaborators.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/isquicha/desafio-softfocus/internal/auth/password"
	"github.com/isquicha/desafio-softfocus/internal/auth/token"
	"github.com/isquicha/desafio-softfocus/internal/logger"
	"github.com/isquicha/desafio-softfocus/internal/store"
)

// Internal login failure causes. Both map to the same external response;
// the distinction exists only for server-side diagnostics.
var (
	// ErrUnknownUser indicates no user exists with the given username.
	ErrUnknownUser = errors.New("auth: unknown user")

	// ErrWrongPassword indicates the password hash did not verify.
	ErrWrongPassword = errors.New("auth: wrong password")

	// ErrAlreadyRegistered indicates the username is taken.
	ErrAlreadyRegistered = errors.New("auth: username already registered")

	// ErrEmptyCredentials indicates a blank username or password reached
	// the service despite upstream validation.
	ErrEmptyCredentials = errors.New("auth: username and password must not be empty")

	// ErrPasswordTooLong indicates the password exceeds the hashing
	// scheme's input limit (72 bytes under bcrypt).
	ErrPasswordTooLong = errors.New("auth: password too long")
)

// CredentialStore is the persistence contract the service needs. It is
// satisfied by *store.UserStore.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*store.User, error)
	Create(ctx context.Context, user *store.User) error
}

// Service implements registration, login, and token verification.
type Service struct {
	users  CredentialStore
	hasher password.Hasher
	codec  *token.Codec
	log    *logger.Logger
}

// NewService creates the auth service.
func NewService(users CredentialStore, hasher password.Hasher, codec *token.Codec, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		codec:  codec,
		log:    log.WithComponent("auth"),
	}
}

// Register creates a new user with a hashed password. The pre-check on the
// username is advisory only: a concurrent registration can still slip past
// it, so a unique-constraint rejection at insert time is translated to the
// same ErrAlreadyRegistered.
func (s *Service) Register(ctx context.Context, username, plaintext, name string) (*store.User, error) {
	if username == "" || plaintext == "" {
		return nil, ErrEmptyCredentials
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("auth: lookup %q: %w", username, err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &store.User{Username: username, Name: name, Password: hash}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("auth: create user %q: %w", username, err)
	}

	s.log.Info("User registered", map[string]any{"username": username})
	return user, nil
}

// Login checks the credentials and mints an access token valid for the
// fixed token window. Callers must collapse ErrUnknownUser and
// ErrWrongPassword into one undifferentiated external response; returning
// them separately here is for logging only.
func (s *Service) Login(ctx context.Context, username, plaintext string) (string, error) {
	if username == "" || plaintext == "" {
		return "", ErrEmptyCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("auth: lookup %q: %w", username, err)
	}

	if !s.hasher.Verify(plaintext, user.Password) {
		return "", ErrWrongPassword
	}

	signed, err := s.codec.Encode(user.Username)
	if err != nil {
		return "", fmt.Errorf("auth: mint token: %w", err)
	}

	s.log.Debug("Token issued", map[string]any{"username": username})
	return signed, nil
}

// Verify decodes and validates a token, returning its claims. The codec's
// failure kinds (expired, invalid, internal) propagate unchanged so the
// request gate can map each to its status code.
func (s *Service) Verify(tokenString string) (*token.Claims, error) {
	return s.codec.Decode(tokenString)
}
