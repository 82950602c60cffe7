// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"inkwell/internal/app"
	"inkwell/internal/upload"

	"github.com/julienschmidt/httprouter"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "token"

// uploadsPrefix is both the URL prefix covers are served under and the
// prefix baked into stored cover references.
const uploadsPrefix = "uploads"

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth       *app.AuthService
	posts      *app.PostService
	uploads    *upload.Store
	corsOrigin string
	sso        *SSO
}

// New creates a Server wired to the given application services. sso may be
// nil, which leaves the SSO routes disabled.
func New(auth *app.AuthService, posts *app.PostService, uploads *upload.Store, corsOrigin string, sso *SSO) *Server {
	return &Server{auth: auth, posts: posts, uploads: uploads, corsOrigin: corsOrigin, sso: sso}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	router := httprouter.New()

	router.POST("/register", s.handleRegister)
	router.POST("/login", s.handleLogin)
	router.POST("/logout", s.handleLogout)
	router.GET("/profile", s.protected(s.handleProfile))

	router.POST("/post", s.protected(s.handleCreatePost))
	router.PUT("/post", s.protected(s.handleUpdatePost))
	router.GET("/post", s.handleListPosts)
	router.GET("/post/:id", s.handleGetPost)

	router.GET("/sso/login", s.handleSSOLogin)
	router.GET("/sso/callback", s.handleSSOCallback)

	router.ServeFiles("/"+uploadsPrefix+"/*filepath", http.Dir(s.uploads.Dir()))

	return s.withCORS(s.withRequestLog(router))
}
