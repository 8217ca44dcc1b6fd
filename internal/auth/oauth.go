package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/xid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// StateCookieName holds the OAuth state between the redirect and the callback.
const StateCookieName = "oauth_state"

const githubUserURL = "https://api.github.com/user"

// GitHubUser is the part of GitHub's /user response used to link accounts.
type GitHubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// GitHubProvider runs the authorization-code flow against GitHub.
type GitHubProvider struct {
	config  *oauth2.Config
	userURL string
}

// NewGitHubProvider creates a provider. callbackURL must match the one
// registered with the OAuth app.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
		userURL: githubUserURL,
	}
}

// NewState returns a random value for the state parameter. The callback
// compares it with the copy kept in StateCookieName to block login CSRF.
func NewState() string {
	return xid.New().String()
}

// AuthURL returns the GitHub authorization URL carrying state.
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for an access token and fetches the
// GitHub profile it belongs to.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building GitHub user request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.config.Client(ctx, oauthToken).Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling GitHub /user API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: GitHub /user API returned status %d", resp.StatusCode)
	}

	var ghUser GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		return nil, fmt.Errorf("auth: decoding GitHub /user response: %w", err)
	}
	if ghUser.ID == 0 || ghUser.Login == "" {
		return nil, fmt.Errorf("auth: GitHub returned an incomplete user")
	}
	return &ghUser, nil
}
