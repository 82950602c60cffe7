package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"inkwell/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
)

// SSO holds the OIDC provider handles for the optional SSO login.
type SSO struct {
	provider *oidc.Provider
	oauth    oauth2.Config
}

// NewSSO discovers the OIDC provider. Returns nil when SSO is not
// configured.
func NewSSO(ctx context.Context, cfg config.OIDC) (*SSO, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}
	return &SSO{
		provider: provider,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.sso == nil {
		writeFail(w, http.StatusNotFound, "sso disabled")
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.sso.oauth.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.sso == nil {
		writeFail(w, http.StatusNotFound, "sso disabled")
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || r.URL.Query().Get("state") != state.Value {
		writeFail(w, http.StatusBadRequest, "invalid state")
		return
	}

	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	oauthToken, err := s.sso.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeFail(w, http.StatusInternalServerError, "failed to exchange token")
		return
	}

	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		writeFail(w, http.StatusInternalServerError, "no id_token")
		return
	}

	idToken, err := s.sso.provider.Verifier(&oidc.Config{ClientID: s.sso.oauth.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		writeFail(w, http.StatusInternalServerError, "failed to verify token")
		return
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err = idToken.Claims(&claims); err != nil {
		writeFail(w, http.StatusInternalServerError, "failed to parse claims")
		return
	}

	username := claims.Email
	if username == "" {
		username = claims.Sub
	}

	_, signed, err := s.auth.LoginWithUser(r.Context(), username)
	if err != nil {
		writeFail(w, http.StatusInternalServerError, "login failed")
		return
	}

	setSessionCookie(w, signed, s.auth.TokenTTL())
	http.Redirect(w, r, "/", http.StatusFound)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
