// Package auth adapts identity providers into explicit sessions.
package auth

import (
	"context"
	"fmt"

	"taskshare/internal/config"
	"taskshare/internal/domain"
)

// Provider is an identity provider that resolves an authorization code
// into the principal who granted it.
type Provider interface {
	// AuthCodeURL returns the URL the user visits to sign in.
	AuthCodeURL(state string) string
	// Exchange trades an authorization code for the signed-in principal.
	Exchange(ctx context.Context, code string) (domain.Principal, error)
}

// NewProvider builds the provider selected by the configuration
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Auth.Provider {
	case config.ProviderGoogle:
		return NewGoogleProvider(GoogleOptions{
			ClientID:     cfg.Auth.GoogleClientID,
			ClientSecret: cfg.Auth.GoogleClientSecret,
			RedirectURL:  cfg.RedirectURL(),
		}), nil
	case config.ProviderStatic, "":
		return NewStaticProvider(domain.Principal{
			UID:         cfg.Auth.Static.UID,
			Email:       cfg.Auth.Static.Email,
			DisplayName: cfg.Auth.Static.DisplayName,
		}), nil
	}
	return nil, fmt.Errorf("unknown identity provider %q", cfg.Auth.Provider)
}
