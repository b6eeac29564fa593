package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"taskshare/internal/domain"
	apperrors "taskshare/internal/errors"
)

// GoogleOptions configures the Google identity provider
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides the Google OAuth endpoint.
	Endpoint *oauth2.Endpoint
	// UserinfoEndpoint overrides the base URL of the userinfo API.
	UserinfoEndpoint string
}

// GoogleProvider signs users in with their Google account
type GoogleProvider struct {
	config           *oauth2.Config
	userinfoEndpoint string
}

// NewGoogleProvider creates a provider for the OAuth client in opts
func NewGoogleProvider(opts GoogleOptions) *GoogleProvider {
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Endpoint:     endpoint,
			Scopes: []string{
				oauth2api.OpenIDScope,
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
		},
		userinfoEndpoint: opts.UserinfoEndpoint,
	}
}

// AuthCodeURL returns the Google consent URL. The account chooser is
// always shown so a signed-out user can switch accounts.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the code for a token and reads the user's profile
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (domain.Principal, error) {
	if code == "" {
		return domain.Principal{}, apperrors.NewAuthenticationError("missing authorization code", nil)
	}

	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domain.Principal{}, apperrors.NewAuthenticationError("unable to complete Google sign-in", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(p.config.Client(ctx, tok))}
	if p.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(p.userinfoEndpoint))
	}

	srv, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return domain.Principal{}, apperrors.NewAuthenticationError("unable to create userinfo client", err)
	}

	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return domain.Principal{}, apperrors.NewAuthenticationError("unable to read Google profile", err)
	}
	if info.Id == "" {
		return domain.Principal{}, apperrors.NewAuthenticationError(fmt.Sprintf("Google profile for %s has no id", info.Email), nil)
	}

	return domain.Principal{
		UID:         info.Id,
		Email:       info.Email,
		DisplayName: info.Name,
		PhotoURL:    info.Picture,
	}, nil
}
