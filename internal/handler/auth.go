package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/model"
	"github.com/sakif/vitaltrack/internal/service"
)

// Authenticator is the part of service.AuthService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, in service.Credentials) (int64, error)
	Login(ctx context.Context, in service.Credentials) (*service.AuthResult, error)
	LoginOrRegisterGitHub(ctx context.Context, gh *auth.GitHubUser) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// GitHubExchanger performs the OAuth redirect and code exchange.
// *auth.GitHubProvider implements it.
type GitHubExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

// AuthHandler serves registration, password login, GitHub sign-in and logout.
//
// Browser clients get the JWT in an HttpOnly cookie; API clients read it from
// the login response and send it as a Bearer token. The auth middleware
// accepts either.
type AuthHandler struct {
	svc       Authenticator
	github    GitHubExchanger // nil when GitHub sign-in is not configured
	cookieTTL time.Duration
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler. cookieTTL should match the token TTL
// so the cookie never outlives the token inside it.
func NewAuthHandler(svc Authenticator, github GitHubExchanger, cookieTTL time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		github:    github,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

// LoginResponse is the body of a successful password login.
type LoginResponse struct {
	Token string            `json:"token"`
	User  model.UserSummary `json:"user"`
}

// HandleRegister creates an account.
//
// HTTP: POST /api/register {"username": "...", "password": "..."}
// 200 {"id": 3}, 400 on blank fields, 409 when the username is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	id, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

// HandleLogin checks the password, sets the token cookie and returns the token.
//
// HTTP: POST /api/login {"username": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in service.Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.Login(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, LoginResponse{Token: result.Token, User: result.User.Summary()})
}

// HandleMe returns the signed-in user.
//
// HTTP: GET /api/me (behind RequireAuth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUserByID(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Summary())
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// A random state value goes into a short-lived HttpOnly cookie and into the
// redirect; the callback only proceeds when the two match (CSRF check).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := auth.NewState()

	http.SetCookie(w, &http.Cookie{
		Name:     auth.StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a GitHub user profile
//  3. Create or reuse the linked local account and issue a JWT
//  4. Set the token cookie and redirect to the app
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	// --- Step 1: Validate CSRF state ---
	stateCookie, err := r.Cookie(auth.StateCookieName)
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// single use
	http.SetCookie(w, &http.Cookie{
		Name:   auth.StateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange code for GitHub user profile ---
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		http.Error(w, "authentication failed", http.StatusBadGateway)
		return
	}

	// --- Step 3: Link the account and issue a token ---
	result, err := h.svc.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: sign-in failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	// --- Step 4: Cookie + redirect ---
	h.setTokenCookie(w, result.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the token cookie. Tokens are stateless, so one that
// was copied elsewhere stays valid until it expires.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	// Secure is left off so the cookie works over plain HTTP in local setups.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
