package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/app"
	"inkwell/internal/domain"
	"inkwell/internal/token"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFail emits the error body shape every endpoint shares:
// {"status":"fail","message":...}.
func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"status": "fail", "message": msg})
}

// writeServiceError maps service sentinels to status codes. Token failures
// become a clean 401 rather than failing the request wholesale.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrValidation),
		errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, app.ErrInvalidCredentials):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotAuthor):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  "fail",
			"title":   "you are not the author",
			"message": "only the author of this post can edit this post",
		})
	case errors.Is(err, domain.ErrNotFound):
		writeFail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, token.ErrInvalidToken):
		writeFail(w, http.StatusUnauthorized, err.Error())
	default:
		writeFail(w, http.StatusInternalServerError, "internal error")
	}
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func setSessionCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	} else if ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, c)
}

// postJSON is the wire shape of a post.
type postJSON struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
	Cover   string `json:"cover,omitempty"`
	Author  struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	} `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPostJSON(p *domain.Post) postJSON {
	out := postJSON{
		ID:        p.ID,
		Title:     p.Title,
		Summary:   p.Summary,
		Content:   p.Content,
		Cover:     p.Cover,
		CreatedAt: p.CreatedAt,
	}
	out.Author.ID = p.AuthorID
	out.Author.Username = p.AuthorName
	return out
}
