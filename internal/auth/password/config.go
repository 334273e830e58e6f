package password

import (
	"fmt"
	"strings"
)

// Scheme identifies a supported hashing scheme.
type Scheme string

const (
	// SchemeBcrypt is bcrypt hashing (default, widely supported).
	SchemeBcrypt Scheme = "bcrypt"

	// SchemeArgon2id is argon2id hashing.
	SchemeArgon2id Scheme = "argon2id"
)

// Config configures password hashing behavior.
type Config struct {
	// Scheme selects the scheme used for new hashes (default: "bcrypt").
	// Verification accepts every supported scheme regardless of this value.
	Scheme Scheme `mapstructure:"scheme"`

	// BcryptCost is the bcrypt cost parameter (default: 12).
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Scheme == "" {
		c.Scheme = SchemeBcrypt
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = 12
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Scheme {
	case SchemeBcrypt, SchemeArgon2id:
	default:
		return fmt.Errorf("password: unsupported scheme %q (use bcrypt or argon2id)", c.Scheme)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("password: bcrypt_cost must be between 4 and 31 (got: %d)", c.BcryptCost)
	}
	return nil
}

// MultiHasher hashes with a configured default scheme and verifies any
// supported scheme by dispatching on the identifier embedded in the hash.
type MultiHasher struct {
	def    Hasher
	bcrypt *BcryptHasher
	argon2 *Argon2Hasher
}

// New creates a MultiHasher from configuration.
func New(cfg Config) *MultiHasher {
	cfg.ApplyDefaults()

	h := &MultiHasher{
		bcrypt: NewBcryptHasher(cfg.BcryptCost),
		argon2: NewArgon2Hasher(),
	}
	switch cfg.Scheme {
	case SchemeArgon2id:
		h.def = h.argon2
	default:
		h.def = h.bcrypt
	}
	return h
}

// Hash hashes plaintext with the configured default scheme.
func (h *MultiHasher) Hash(plaintext string) (string, error) {
	return h.def.Hash(plaintext)
}

// Verify dispatches to the scheme recorded in the hash string. Hashes in
// an unrecognized format verify false.
func (h *MultiHasher) Verify(plaintext, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		return h.argon2.Verify(plaintext, hash)
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return h.bcrypt.Verify(plaintext, hash)
	default:
		return false
	}
}
