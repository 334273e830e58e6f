// Package authctx propagates verified token claims through a request's
// context. Handlers behind the token gate retrieve claims from here rather
// than re-parsing the token.
package authctx

import "context"

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

var claimsKey = contextKey{}

// Set stores verified claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Get retrieves typed claims from the context. Returns the zero value and
// false if claims are absent or of a different type.
func Get[T any](ctx context.Context) (T, bool) {
	val := ctx.Value(claimsKey)
	if val == nil {
		var zero T
		return zero, false
	}
	claims, ok := val.(T)
	return claims, ok
}

// MustGet retrieves typed claims from the context and panics if they are
// missing. Use only in handlers the token gate is guaranteed to cover.
func MustGet[T any](ctx context.Context) T {
	claims, ok := Get[T](ctx)
	if !ok {
		panic("authctx: claims not found in context or wrong type")
	}
	return claims
}
