package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verduraria/backend/pkg/config"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
)

// FederatedIdentity is what a third-party provider vouches for. The service
// only needs a stable subject plus profile basics to map onto a local user.
type FederatedIdentity struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// IdentityVerifier turns a provider access token into a verified identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, provider, token string) (*FederatedIdentity, error)
}

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"

	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	facebookMeURL      = "https://graph.facebook.com/me"
)

// httpVerifier validates tokens against the providers' REST endpoints.
type httpVerifier struct {
	cfg    config.FederationConfig
	client *http.Client
}

// NewHTTPVerifier builds the production identity verifier.
func NewHTTPVerifier(cfg config.FederationConfig) IdentityVerifier {
	return &httpVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *httpVerifier) Verify(ctx context.Context, provider, token string) (*FederatedIdentity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "provider token required")
	}
	switch provider {
	case ProviderGoogle:
		return v.verifyGoogle(ctx, token)
	case ProviderFacebook:
		return v.verifyFacebook(ctx, token)
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported identity provider %q", provider))
}

func (v *httpVerifier) verifyGoogle(ctx context.Context, idToken string) (*FederatedIdentity, error) {
	if v.cfg.GoogleClientID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google login is not configured")
	}

	var payload struct {
		Aud           string `json:"aud"`
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
	}
	endpoint := googleTokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	if err := v.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	if payload.Aud != v.cfg.GoogleClientID {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token issued for another application")
	}
	if payload.EmailVerified != "true" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "google account email is unverified")
	}

	return &FederatedIdentity{
		Provider: ProviderGoogle,
		Subject:  payload.Sub,
		Email:    payload.Email,
		Name:     payload.Name,
	}, nil
}

func (v *httpVerifier) verifyFacebook(ctx context.Context, accessToken string) (*FederatedIdentity, error) {
	if v.cfg.FacebookAppID == "" || v.cfg.FacebookAppSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "facebook login is not configured")
	}

	var payload struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	endpoint := facebookMeURL + "?fields=id,name,email&access_token=" + url.QueryEscape(accessToken)
	if err := v.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "facebook token rejected")
	}

	return &FederatedIdentity{
		Provider: ProviderFacebook,
		Subject:  payload.ID,
		Email:    payload.Email,
		Name:     payload.Name,
	}, nil
}

func (v *httpVerifier) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build provider request")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reach identity provider")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "identity provider rejected the token")
	}
	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("identity provider returned %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode provider response")
	}
	return nil
}
