package oidcauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// jwksRefreshInterval is how often the key set is re-fetched in the background
const jwksRefreshInterval = time.Hour

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token issuer is invalid
	ErrInvalidIssuer = errors.New("invalid issuer")

	// ErrInvalidAudience is returned when the token audience is invalid
	ErrInvalidAudience = errors.New("invalid audience")

	// ErrMissingClaim is returned when a required claim is absent
	ErrMissingClaim = errors.New("missing required claim")

	// ErrDiscoveryFailed is returned when the issuer metadata cannot be fetched
	ErrDiscoveryFailed = errors.New("oidc discovery failed")

	// ErrJWKSFetchFailed is returned when the key set cannot be initialised
	ErrJWKSFetchFailed = errors.New("failed to fetch JWKS")
)

// Config holds configuration for Validator
type Config struct {
	IssuerURL string
	// JWKSURL skips discovery when set; IssuerURL is then used verbatim as
	// the expected iss claim.
	JWKSURL         string
	Algorithm       string
	RequireAudience bool
	Audience        string
	Leeway          time.Duration
	HTTPTimeout     time.Duration

	// Logger receives background key refresh failures; nil discards them
	Logger *zap.Logger
}

// Validator validates bearer tokens issued by an OpenID Connect provider.
// Keys are fetched from the provider's JWKS and refreshed in the background
// for as long as the context passed to NewValidator lives.
type Validator struct {
	issuer    string
	jwksURL   string
	algorithm string
	audience  string
	keyfunc   jwt.Keyfunc
	parser    *jwt.Parser
}

// NewValidator resolves the issuer's key set and returns a ready validator.
// Discovery is skipped when cfg.JWKSURL is set.
func NewValidator(ctx context.Context, cfg Config) (*Validator, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "RS256"
	}
	if jwt.GetSigningMethod(cfg.Algorithm) == nil || strings.HasPrefix(cfg.Algorithm, "HS") || cfg.Algorithm == "none" {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.RequireAudience && cfg.Audience == "" {
		return nil, errors.New("audience is required when audience validation is enabled")
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	issuer, jwksURL := cfg.IssuerURL, cfg.JWKSURL
	if jwksURL == "" {
		var err error
		issuer, jwksURL, err = discover(ctx, cfg.IssuerURL, cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
	}

	kf, err := newKeyfunc(ctx, jwksURL, cfg)
	if err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{cfg.Algorithm}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.RequireAudience {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Validator{
		issuer:    issuer,
		jwksURL:   jwksURL,
		algorithm: cfg.Algorithm,
		audience:  cfg.Audience,
		keyfunc:   kf.Keyfunc,
		parser:    jwt.NewParser(opts...),
	}, nil
}

// newKeyfunc fetches the key set once, failing if it is unreachable, and
// keeps refreshing it until ctx ends.
func newKeyfunc(ctx context.Context, jwksURL string, cfg Config) (keyfunc.Keyfunc, error) {
	logger := cfg.Logger.With(zap.String("jwks_url", jwksURL))

	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:          &http.Client{Timeout: cfg.HTTPTimeout},
		Ctx:             ctx,
		HTTPTimeout:     cfg.HTTPTimeout,
		RefreshInterval: jwksRefreshInterval,
		RefreshErrorHandler: func(ctx context.Context, err error) {
			logger.Warn("jwks refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}

	kf, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJWKSFetchFailed, err)
	}
	return kf, nil
}

func discover(ctx context.Context, issuerURL string, timeout time.Duration) (string, string, error) {
	client := &http.Client{Timeout: timeout}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), issuerURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}

	var meta struct {
		Issuer  string `json:"issuer"`
		JwksURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&meta); err != nil {
		return "", "", fmt.Errorf("%w: invalid discovery metadata: %v", ErrDiscoveryFailed, err)
	}
	if meta.JwksURI == "" {
		return "", "", fmt.Errorf("%w: discovery document has no jwks_uri", ErrDiscoveryFailed)
	}

	return meta.Issuer, meta.JwksURI, nil
}

// ValidateToken validates a JWT token and returns parsed claims
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*ParsedClaims, error) {
	claims := &Claims{}

	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, fmt.Errorf("%w: %v", ErrInvalidIssuer, err)
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, fmt.Errorf("%w: %v", ErrInvalidAudience, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	return newParsedClaims(claims), nil
}

// Issuer returns the issuer tokens are checked against
func (v *Validator) Issuer() string {
	return v.issuer
}

// JWKSURL returns the key set location in use
func (v *Validator) JWKSURL() string {
	return v.jwksURL
}

// Algorithm returns the only accepted signing algorithm
func (v *Validator) Algorithm() string {
	return v.algorithm
}
