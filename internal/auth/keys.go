package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

const (
	// jwksRegistrationTimeout bounds the initial JWKS fetch so a slow
	// identity provider cannot stall the first request indefinitely.
	jwksRegistrationTimeout = 5 * time.Second

	// jwksLookupTimeout bounds key set lookups, which may trigger a
	// refresh fetch. Callers on the stdio transport carry no deadline of
	// their own.
	jwksLookupTimeout = 5 * time.Second
)

// ErrKeyNotFound indicates the token's key id has no match in the
// provider's published key set.
var ErrKeyNotFound = errors.New("signing key not found")

// KeyResolver resolves the public signing key for an unverified token from
// the identity provider's published JWKS. The underlying jwk.Cache refreshes
// the key set according to the provider's cache headers, so key rotation is
// picked up without restarting the server. Fetches happen on the cache's own
// worker, off the request path.
//
// Only the unvalidated kid header is consulted here; nothing from the token
// body is trusted before the signature check.
type KeyResolver struct {
	jwksURL string
	cache   *jwk.Cache

	// Registration is deferred to first use so the server can start while
	// the identity provider is unreachable.
	registerMu sync.Mutex
	registered bool
}

// NewKeyResolver creates a resolver for the given JWKS endpoint.
func NewKeyResolver(ctx context.Context, jwksURL string) (*KeyResolver, error) {
	if jwksURL == "" {
		return nil, fmt.Errorf("JWKS URL is required")
	}

	cache, err := jwk.NewCache(ctx, httprc.NewClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS cache: %w", err)
	}

	return &KeyResolver{
		jwksURL: jwksURL,
		cache:   cache,
	}, nil
}

// ensureRegistered registers the JWKS URL with the cache on first use.
// A failed attempt is not retained: the URL is dropped from the cache
// again so the next resolve starts over, and verification recovers as
// soon as the identity provider is reachable.
func (r *KeyResolver) ensureRegistered(ctx context.Context) error {
	r.registerMu.Lock()
	defer r.registerMu.Unlock()

	if r.registered {
		return nil
	}

	registerCtx, cancel := context.WithTimeout(ctx, jwksRegistrationTimeout)
	defer cancel()

	if err := r.cache.Register(registerCtx, r.jwksURL); err != nil {
		// Register can leave the URL behind when only the initial fetch
		// failed. Drop it so the retry is not rejected as a duplicate.
		cleanupCtx, cleanupCancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cleanupCancel()
		_ = r.cache.Unregister(cleanupCtx, r.jwksURL)

		return fmt.Errorf("failed to register JWKS URL: %w", err)
	}

	r.registered = true
	return nil
}

// ResolveKey returns the raw public key matching the token's kid header.
// It is shaped as a golang-jwt keyfunc callee: the token passed in is not
// yet verified and only its header is consulted.
func (r *KeyResolver) ResolveKey(ctx context.Context, token *jwt.Token) (any, error) {
	if err := r.ensureRegistered(ctx); err != nil {
		return nil, err
	}

	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, fmt.Errorf("%w: token header missing kid", ErrKeyNotFound)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, jwksLookupTimeout)
	defer cancel()

	keySet, err := r.cache.Lookup(lookupCtx, r.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up JWKS: %w", err)
	}

	key, found := keySet.LookupKeyID(kid)
	if !found {
		return nil, fmt.Errorf("%w: kid %q not in key set", ErrKeyNotFound, kid)
	}

	var rawKey any
	if err := jwk.Export(key, &rawKey); err != nil {
		return nil, fmt.Errorf("failed to export signing key: %w", err)
	}

	return rawKey, nil
}
