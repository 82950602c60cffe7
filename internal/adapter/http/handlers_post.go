package adapthttp

import (
	"net/http"
	"strconv"

	"inkwell/internal/domain"

	"github.com/julienschmidt/httprouter"
)

// multipartMemory is the in-memory threshold for multipart parsing; larger
// bodies spill to disk. No hard size limit is enforced.
const multipartMemory = 32 << 20

// saveCover stores the uploaded cover, if any, and returns its reference
// ("uploads/<name>.<ext>"). An absent file yields an empty reference and no
// error; required is enforced by callers.
func (s *Server) saveCover(r *http.Request) (string, error) {
	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	name, err := s.uploads.Save(file, header.Filename)
	if err != nil {
		return "", err
	}
	return uploadsPrefix + "/" + name, nil
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	cover, err := s.saveCover(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "could not store upload")
		return
	}
	if cover == "" {
		writeFail(w, http.StatusBadRequest, "a cover file is required")
		return
	}

	claims := claimsFrom(r.Context())
	post, err := s.posts.Create(r.Context(), claims.UserID,
		r.FormValue("title"), r.FormValue("summary"), r.FormValue("content"), cover)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   toPostJSON(post),
	})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "invalid post id")
		return
	}

	// Optional on update: an absent file keeps the stored cover.
	cover, err := s.saveCover(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "could not store upload")
		return
	}

	claims := claimsFrom(r.Context())
	post, err := s.posts.Update(r.Context(), id, claims.UserID, domain.PostUpdate{
		Title:   r.FormValue("title"),
		Summary: r.FormValue("summary"),
		Content: r.FormValue("content"),
		Cover:   cover,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var newPath any
	if cover != "" {
		newPath = cover
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"newPath": newPath,
		"postDoc": toPostJSON(post),
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.posts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	data := make([]postJSON, 0, len(posts))
	for i := range posts {
		data = append(data, toPostJSON(&posts[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"results": len(data),
		"data":    data,
	})
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		writeFail(w, http.StatusNotFound, "unknown post")
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Clients of this endpoint expect 202, not 200.
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "success",
		"post":   toPostJSON(post),
	})
}
