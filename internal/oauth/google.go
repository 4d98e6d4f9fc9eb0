package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/medialist/medialist-go/internal/model"
)

const (
	googleIssuer  = "https://accounts.google.com"
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
)

var ErrMissingIDToken = errors.New("token response has no id_token")

// Config configures a GoogleProvider. Endpoint, Issuer and KeySet default to
// Google's production values.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	Endpoint oauth2.Endpoint
	Issuer   string
	KeySet   oidc.KeySet
}

// GoogleProvider runs the authorization code flow against Google and turns
// the verified ID token into a profile.
type GoogleProvider struct {
	config   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

// NewGoogleProvider builds a provider without contacting Google; signing keys
// are fetched lazily on first verification using ctx.
func NewGoogleProvider(ctx context.Context, cfg Config) *GoogleProvider {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = googleIssuer
	}
	keySet := cfg.KeySet
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(ctx, googleJWKSURL)
	}

	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: cfg.ClientID}),
	}
}

// AuthCodeURL returns the consent page URL carrying the given state.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens and returns the profile
// asserted by the verified ID token.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (model.Profile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.Profile{}, fmt.Errorf("token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return model.Profile{}, ErrMissingIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return model.Profile{}, fmt.Errorf("verify id token: %w", err)
	}

	var claims struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return model.Profile{}, fmt.Errorf("decode id token claims: %w", err)
	}

	profile := model.Profile{Subject: idToken.Subject, Name: claims.Name}
	if claims.Email != "" {
		profile.Emails = []string{claims.Email}
	}
	return profile, nil
}
