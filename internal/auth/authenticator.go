package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/spec-kit/subscriber-service/pkg/util"
)

// Scope is a coarse capability label attached to a principal.
type Scope string

const (
	ScopeAuthenticated Scope = "authenticated"
	ScopeUser          Scope = "user"
	ScopeAdmin         Scope = "admin"
)

// AdminUser is the identity behind the shared service credential.
const AdminUser = "admin"

// Principal represents the authenticated caller. A nil Principal means the
// request is anonymous.
type Principal struct {
	User   string
	Scopes map[Scope]struct{}
}

// HasScope reports whether the principal carries the given scope.
func (p *Principal) HasScope(s Scope) bool {
	if p == nil {
		return false
	}
	_, ok := p.Scopes[s]
	return ok
}

// IsAdmin reports whether the principal is the service identity.
func (p *Principal) IsAdmin() bool {
	return p.HasScope(ScopeAdmin)
}

// Authenticator derives a principal from a request's Authorization header.
type Authenticator struct {
	m2mToken []byte
	tokens   *TokenManager
}

// NewAuthenticator constructs an authenticator over the shared service
// credential and the token manager.
func NewAuthenticator(m2mToken string, tokens *TokenManager) *Authenticator {
	return &Authenticator{m2mToken: []byte(m2mToken), tokens: tokens}
}

// Authenticate maps an Authorization header value to a principal.
//
// Absent header, non-Bearer scheme or malformed value: the request proceeds
// anonymous (nil principal, nil error). A credential equal to the shared
// service secret yields the admin principal; the comparison is constant-time
// and happens before any token parsing, so the admin path never depends on
// the signing secret. Anything else must verify as a user token; failure is
// an authentication error, never a silent downgrade.
func (a *Authenticator) Authenticate(header string) (*Principal, error) {
	if header == "" {
		return nil, nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, nil
	}
	credential := parts[1]

	if subtle.ConstantTimeCompare([]byte(credential), a.m2mToken) == 1 {
		return &Principal{
			User: AdminUser,
			Scopes: map[Scope]struct{}{
				ScopeAuthenticated: {},
				ScopeAdmin:         {},
			},
		}, nil
	}

	user, err := a.tokens.Verify(credential)
	if err != nil {
		return nil, util.NewUnauthenticated("invalid auth credentials")
	}
	return &Principal{
		User: user,
		Scopes: map[Scope]struct{}{
			ScopeAuthenticated: {},
			ScopeUser:          {},
		},
	}, nil
}

// RequireAdmin guards admin-scoped operations.
func RequireAdmin(p *Principal) error {
	if !p.HasScope(ScopeAuthenticated) {
		return util.NewUnauthenticated("authentication required")
	}
	if !p.IsAdmin() {
		return util.NewForbidden("admin scope required")
	}
	return nil
}

// RequireOwnerOrAdmin guards per-resource operations: the caller must be
// authenticated and either own the record or hold the admin scope.
func RequireOwnerOrAdmin(p *Principal, user string) error {
	if !p.HasScope(ScopeAuthenticated) {
		return util.NewUnauthenticated("authentication required")
	}
	if p.User != user && !p.IsAdmin() {
		return util.NewForbidden("not the record owner")
	}
	return nil
}
