package adapthttp

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := parseJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, signed, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, signed, s.auth.TokenTTL())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"id":       user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req credentialsRequest
	if err := parseJSON(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, signed, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setSessionCookie(w, signed, s.auth.TokenTTL())
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"id":       user.ID,
		"username": user.Username,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := claimsFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"username": claims.Username,
		"id":       claims.UserID,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	setSessionCookie(w, "", 0)
	writeJSON(w, http.StatusOK, map[string]any{"status": "success"})
}
