// Package token encodes and decodes the service's signed access tokens.
//
// Tokens are compact JWTs signed with HMAC-SHA256 under a single
// process-wide secret. A minted token is valid for exactly TokenValidity
// from its creation; expiry is strict (a token whose expiry equals the
// verification instant is already expired).
package token

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/isquicha/desafio-softfocus/internal/apperr"
)

// TokenValidity is the fixed window a minted token remains acceptable.
const TokenValidity = 3 * time.Hour

// Claims is the payload carried by an access token. It is trusted only
// after Decode verifies the signature and expiry.
type Claims struct {
	gojwt.RegisteredClaims
	Username string `json:"username"`
}

// Codec encodes and decodes signed access tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// Option overrides Codec behavior.
type Option func(*Codec)

// WithClock replaces the codec's time source. Used in tests to mint
// tokens around the expiry boundary.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a Codec signing with the given secret key.
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: secret key is required")
	}
	c := &Codec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encode mints a signed token for the given username, expiring
// TokenValidity from now.
func (c *Codec) Encode(username string) (string, error) {
	now := c.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(now.Add(TokenValidity)),
			IssuedAt:  gojwt.NewNumericDate(now),
		},
		Username: username,
	}

	tok := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the token's signature and expiry and returns its claims.
// Failures are classified so the request gate can map each to a distinct
// status: apperr.TokenExpired when the expiry has passed, apperr.TokenInvalid
// for a bad signature or malformed structure, and an internal-kind error
// for anything unexpected.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := gojwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, apperr.TokenInvalid().WithCause(errors.New("token: parsed token not valid"))
	}
	return claims, nil
}

func (c *Codec) keyFunc(tok *gojwt.Token) (any, error) {
	if tok.Method.Alg() != gojwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("token: unexpected signing method: %s", tok.Method.Alg())
	}
	return c.secret, nil
}

// classify maps golang-jwt parse errors onto the service error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return apperr.TokenExpired().WithCause(err)
	case errors.Is(err, gojwt.ErrTokenMalformed),
		errors.Is(err, gojwt.ErrTokenSignatureInvalid),
		errors.Is(err, gojwt.ErrTokenUnverifiable),
		errors.Is(err, gojwt.ErrTokenNotValidYet),
		errors.Is(err, gojwt.ErrSignatureInvalid):
		return apperr.TokenInvalid().WithCause(err)
	default:
		return apperr.TokenProcessing(err)
	}
}
