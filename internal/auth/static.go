package auth

import (
	"context"
	"net/url"

	"taskshare/internal/domain"
	apperrors "taskshare/internal/errors"
)

// StaticCode is the authorization code accepted by StaticProvider.
const StaticCode = "static"

// StaticProvider signs in a fixed principal. It backs the CLI and local development.
type StaticProvider struct {
	principal domain.Principal
}

// NewStaticProvider creates a provider that always resolves to principal
func NewStaticProvider(principal domain.Principal) *StaticProvider {
	return &StaticProvider{principal: principal}
}

// AuthCodeURL returns a callback URL carrying the static code
func (p *StaticProvider) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("state", state)
	q.Set("code", StaticCode)
	return "/auth/callback?" + q.Encode()
}

// Exchange returns the configured principal
func (p *StaticProvider) Exchange(ctx context.Context, code string) (domain.Principal, error) {
	if err := ctx.Err(); err != nil {
		return domain.Principal{}, apperrors.NewAuthenticationError("sign-in was interrupted", err)
	}
	if code == "" {
		return domain.Principal{}, apperrors.NewAuthenticationError("missing authorization code", nil)
	}
	if p.principal.IsZero() {
		return domain.Principal{}, apperrors.NewAuthenticationError("no identity configured; set --uid or auth.static.uid", nil)
	}
	return p.principal, nil
}
