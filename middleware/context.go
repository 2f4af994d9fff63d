package middleware

import (
	"context"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
)

// Claims represents the identity extracted from a validated bearer token
type Claims struct {
	Sub   string  `json:"sub"`
	Email *string `json:"email,omitempty"`
}

// AuthDecision is the outcome of the auth gate for one request: either
// authenticated with claims or unauthenticated.
type AuthDecision struct {
	claims *Claims
}

// Unauthenticated is the decision for requests without valid credentials
var Unauthenticated = AuthDecision{}

// Authenticated returns the decision for a request carrying claims
func Authenticated(claims *Claims) AuthDecision {
	return AuthDecision{claims: claims}
}

// IsAuthenticated reports whether the request carried a valid token
func (d AuthDecision) IsAuthenticated() bool {
	return d.claims != nil
}

// Claims returns the caller's claims, or nil when unauthenticated
func (d AuthDecision) Claims() *Claims {
	return d.claims
}

// DecisionFromContext derives the auth decision attached by the gate
func DecisionFromContext(ctx context.Context) AuthDecision {
	if claims := GetClaimsFromContext(ctx); claims != nil {
		return Authenticated(claims)
	}
	return Unauthenticated
}

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetClaimsFromContext retrieves JWT claims from context
func GetClaimsFromContext(ctx context.Context) *Claims {
	if val := ctx.Value(ClaimsKey); val != nil {
		if claims, ok := val.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// WithClaims adds JWT claims to the context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// SubjectFromContext returns the caller's subject or an empty string
func SubjectFromContext(ctx context.Context) string {
	if claims := GetClaimsFromContext(ctx); claims != nil {
		return claims.Sub
	}
	return ""
}
