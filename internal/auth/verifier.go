package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ytlabs/yt-mcp/internal/logging"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// wrong issuer, expired token, unknown key. The underlying cause is logged
// but callers only see this sentinel, so nothing about the failure mode
// leaks to unauthenticated clients.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the result of successful token verification. It lives for one
// request and is never persisted.
type Identity struct {
	// Subject is the stable user id (the sub claim), used as the storage
	// key for delegated credentials.
	Subject string

	// ClientID is taken from the azp claim, falling back to client_id,
	// falling back to "unknown".
	ClientID string

	// Scopes granted to the token.
	Scopes []string

	// ExpiresAt is the token expiry.
	ExpiresAt time.Time

	// Resource is the configured audience this server protects. The
	// audience claim is not enforced during decode; this value is carried
	// for downstream policy decisions.
	Resource string
}

// HasScope reports whether the identity was granted the given scope.
func (id *Identity) HasScope(scope string) bool {
	for _, s := range id.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Verifier validates Auth0-issued bearer tokens.
//
// Validation order: signing key resolution, signature against the algorithm
// allow-list, exact issuer match, expiry and issued-at against the current
// time. Audience is deliberately not enforced here: Auth0 access tokens may
// carry multiple audiences and resource-level checks belong to the caller.
// The configured audience is recorded on the identity instead.
type Verifier struct {
	issuer   string
	audience string
	parser   *jwt.Parser
	keys     *KeyResolver
	logger   *slog.Logger
}

// NewVerifier creates a token verifier for the configured identity provider.
// The passed context bounds the lifetime of the JWKS refresh worker.
func NewVerifier(ctx context.Context, cfg Config, logger *slog.Logger) (*Verifier, error) {
	keys, err := NewKeyResolver(ctx, cfg.JWKSEndpoint())
	if err != nil {
		return nil, err
	}

	algorithms := cfg.Algorithms
	if len(algorithms) == 0 {
		algorithms = []string{DefaultAlgorithm}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(algorithms),
		jwt.WithIssuer(cfg.IssuerURL()),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)

	if logger == nil {
		logger = slog.Default()
	}

	return &Verifier{
		issuer:   cfg.IssuerURL(),
		audience: cfg.Audience,
		parser:   parser,
		keys:     keys,
		logger:   logger,
	}, nil
}

// Verify validates a bearer token and extracts the caller's identity.
// Any failure collapses to ErrInvalidToken; the cause is logged at debug
// level and never surfaced to the caller.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := v.parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return v.keys.ResolveKey(ctx, t)
	})
	if err != nil {
		v.logger.Debug("token verification failed",
			logging.Err(err),
			slog.String("token", logging.SanitizeToken(tokenString)))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrInvalidToken)
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		v.logger.Debug("token missing sub claim", logging.Err(err))
		return nil, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	return &Identity{
		Subject:   subject,
		ClientID:  clientIDFromClaims(claims),
		Scopes:    scopesFromClaims(claims),
		ExpiresAt: expiry.Time,
		Resource:  v.audience,
	}, nil
}

// scopesFromClaims extracts granted scopes. The space-delimited scope claim
// wins over the permissions array when both are present.
func scopesFromClaims(claims jwt.MapClaims) []string {
	if scope, ok := claims["scope"].(string); ok && scope != "" {
		return strings.Fields(scope)
	}

	if permissions, ok := claims["permissions"].([]any); ok {
		scopes := make([]string, 0, len(permissions))
		for _, p := range permissions {
			if s, ok := p.(string); ok && s != "" {
				scopes = append(scopes, s)
			}
		}
		return scopes
	}

	return nil
}

func clientIDFromClaims(claims jwt.MapClaims) string {
	if azp, ok := claims["azp"].(string); ok && azp != "" {
		return azp
	}
	if clientID, ok := claims["client_id"].(string); ok && clientID != "" {
		return clientID
	}
	return "unknown"
}
