package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"

	"github.com/rpm-system/rpm-backend/internal/config"
)

const (
	googleUserInfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
	microsoftUserInfoURL = "https://graph.microsoft.com/v1.0/me"
)

// Profile is the normalized identity returned by every provider.
type Profile struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// Provider wraps one OAuth identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// FetchProfile exchanges the authorization code and fetches the
	// provider's userinfo document.
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

// StateToken returns a random URL-safe state value for CSRF protection.
func StateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type googleProvider struct {
	cfg *oauth2.Config
	// userInfoURL is overridable in tests
	userInfoURL string
}

// NewGoogle builds the Google provider from client credentials
func NewGoogle(cfg config.OAuthClientConfig, redirectURL string) Provider {
	return &googleProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (g *googleProvider) Name() string {
	return "google"
}

func (g *googleProvider) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (g *googleProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange google code: %w", err)
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, g.cfg.Client(ctx, token), g.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}

	if info.Email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}

	return &Profile{
		ID:     info.ID,
		Email:  info.Email,
		Name:   info.Name,
		Avatar: info.Picture,
	}, nil
}

type microsoftProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// NewMicrosoft builds the Microsoft provider on the common tenant, so
// both personal and work accounts can sign in.
func NewMicrosoft(cfg config.OAuthClientConfig, redirectURL string) Provider {
	return &microsoftProvider{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile", "User.Read"},
			Endpoint:     microsoft.AzureADEndpoint("common"),
		},
		userInfoURL: microsoftUserInfoURL,
	}
}

func (m *microsoftProvider) Name() string {
	return "microsoft"
}

func (m *microsoftProvider) AuthCodeURL(state string) string {
	return m.cfg.AuthCodeURL(state)
}

func (m *microsoftProvider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	token, err := m.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange microsoft code: %w", err)
	}

	var info struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := fetchJSON(ctx, m.cfg.Client(ctx, token), m.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch microsoft profile: %w", err)
	}

	// Personal accounts often have no mail attribute, only the UPN.
	email := info.Mail
	if email == "" {
		email = info.UserPrincipalName
	}
	if email == "" {
		return nil, fmt.Errorf("microsoft profile has no email")
	}

	return &Profile{
		ID:    info.ID,
		Email: email,
		Name:  info.DisplayName,
	}, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("userinfo request returned %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// Registry maps provider names to configured providers.
type Registry map[string]Provider

// NewRegistry wires up the providers that have credentials configured
func NewRegistry(cfg *config.Config) Registry {
	reg := Registry{}
	if cfg.OAuth.Google.Enabled() {
		reg["google"] = NewGoogle(cfg.OAuth.Google, cfg.Web.BackendURL+"/api/auth/google/callback")
	}
	if cfg.OAuth.Microsoft.Enabled() {
		reg["microsoft"] = NewMicrosoft(cfg.OAuth.Microsoft, cfg.Web.BackendURL+"/api/auth/microsoft/callback")
	}
	return reg
}

// Get returns a configured provider by name
func (r Registry) Get(name string) (Provider, bool) {
	p, ok := r[name]
	return p, ok
}
