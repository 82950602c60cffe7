package adapthttp_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strconv"
	"testing"
	"time"

	adapthttp "inkwell/internal/adapter/http"
	"inkwell/internal/adapter/memory"
	"inkwell/internal/app"
	"inkwell/internal/token"
	"inkwell/internal/upload"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler http.Handler
	db      *memory.DB
	auth    *app.AuthService
	posts   *app.PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.New()
	codec := token.New("test-secret", time.Hour)
	authSvc := app.NewAuthService(db, codec)
	postSvc := app.NewPostService(db.NewPostRepo())

	uploads, err := upload.NewStore(t.TempDir())
	require.NoError(t, err)

	srv := adapthttp.New(authSvc, postSvc, uploads, "http://localhost:5173", nil)
	return &fixture{handler: srv.Handler(), db: db, auth: authSvc, posts: postSvc}
}

// sessionFor registers a user out of band and returns its id and cookie
// value.
func (f *fixture) sessionFor(t *testing.T, username string) (int64, string) {
	t.Helper()
	user, signed, err := f.auth.Register(t.Context(), username, "password123")
	require.NoError(t, err)
	return user.ID, signed
}

// multipartBody builds a multipart payload with the given form fields and,
// when fileName is non-empty, one file part under the field name "file".
func multipartBody(t *testing.T, fields map[string]string, fileName, fileContent string) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.String(), w.FormDataContentType()
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Post("/register").
		JSON(`{"username":"alice","password":"hunter22"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "success")).
		Assert(jsonpath.Equal("$.username", "alice")).
		CookiePresent("token").
		End()

	// Same username again fails and the store still holds one user.
	apitest.Handler(f.handler).
		Post("/register").
		JSON(`{"username":"alice","password":"other"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.status", "fail")).
		End()

	u, err := f.db.GetByUsername(t.Context(), "alice")
	require.NoError(t, err)
	require.NotNil(t, u)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.sessionFor(t, "alice")

	apitest.Handler(f.handler).
		Post("/login").
		JSON(`{"username":"alice","password":"password123"}`).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "success")).
		CookiePresent("token").
		End()

	apitest.Handler(f.handler).
		Post("/login").
		JSON(`{"username":"alice","password":"wrong"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.status", "fail")).
		End()

	apitest.Handler(f.handler).
		Post("/login").
		JSON(`{"username":"alice","password":""}`).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	id, session := f.sessionFor(t, "alice")

	apitest.Handler(f.handler).
		Get("/profile").
		Cookies(apitest.NewCookie("token").Value(session)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.username", "alice")).
		Assert(jsonpath.Equal("$.id", float64(id))).
		End()

	// No cookie: structured 401, not a server error.
	apitest.Handler(f.handler).
		Get("/profile").
		Expect(t).
		Status(http.StatusUnauthorized).
		Assert(jsonpath.Equal("$.status", "fail")).
		End()

	// Tampered token.
	forged, err := token.New("other-secret", time.Hour).Issue("alice", id)
	require.NoError(t, err)
	apitest.Handler(f.handler).
		Get("/profile").
		Cookies(apitest.NewCookie("token").Value(forged)).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Post("/logout").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "success")).
		End()
}

func TestCreatePost(t *testing.T) {
	f := newFixture(t)
	id, session := f.sessionFor(t, "alice")

	body, contentType := multipartBody(t, map[string]string{
		"title":   "Hello",
		"summary": "First post",
		"content": "<p>hi</p>",
	}, "photo.jpeg", "jpeg-bytes")

	apitest.Handler(f.handler).
		Post("/post").
		Cookies(apitest.NewCookie("token").Value(session)).
		Body(body).
		Header("Content-Type", contentType).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "success")).
		Assert(jsonpath.Equal("$.data.title", "Hello")).
		Assert(jsonpath.Equal("$.data.author.id", float64(id))).
		Assert(jsonpath.Matches("$.data.cover", `^uploads/.+\.jpeg$`)).
		End()

	// Without a session cookie creation is rejected.
	apitest.Handler(f.handler).
		Post("/post").
		Body(body).
		Header("Content-Type", contentType).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	// Without a file creation is rejected.
	noFile, noFileType := multipartBody(t, map[string]string{
		"title": "t", "summary": "s", "content": "c",
	}, "", "")
	apitest.Handler(f.handler).
		Post("/post").
		Cookies(apitest.NewCookie("token").Value(session)).
		Body(noFile).
		Header("Content-Type", noFileType).
		Expect(t).
		Status(http.StatusBadRequest).
		End()
}

func TestListPostsNewestFirst(t *testing.T) {
	f := newFixture(t)
	id, _ := f.sessionFor(t, "alice")

	for _, title := range []string{"p1", "p2", "p3"} {
		_, err := f.posts.Create(t.Context(), id, title, "s", "c", "uploads/x.png")
		require.NoError(t, err)
	}

	apitest.Handler(f.handler).
		Get("/post").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.results", float64(3))).
		Assert(jsonpath.Equal("$.data[0].title", "p3")).
		Assert(jsonpath.Equal("$.data[1].title", "p2")).
		Assert(jsonpath.Equal("$.data[2].title", "p1")).
		Assert(jsonpath.Equal("$.data[0].author.username", "alice")).
		End()
}

func TestGetPost(t *testing.T) {
	f := newFixture(t)
	id, _ := f.sessionFor(t, "alice")
	post, err := f.posts.Create(t.Context(), id, "Hello", "s", "c", "uploads/x.png")
	require.NoError(t, err)

	apitest.Handler(f.handler).
		Get("/post/" + strconv.FormatInt(post.ID, 10)).
		Expect(t).
		Status(http.StatusAccepted).
		Assert(jsonpath.Equal("$.post.title", "Hello")).
		Assert(jsonpath.Equal("$.post.author.username", "alice")).
		End()

	apitest.Handler(f.handler).
		Get("/post/999").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.status", "fail")).
		End()
}

func TestUpdatePostOwnership(t *testing.T) {
	f := newFixture(t)
	aliceID, _ := f.sessionFor(t, "alice")
	_, bobSession := f.sessionFor(t, "bob")

	post, err := f.posts.Create(t.Context(), aliceID, "original", "s", "c", "uploads/x.png")
	require.NoError(t, err)

	body, contentType := multipartBody(t, map[string]string{
		"id":      strconv.FormatInt(post.ID, 10),
		"title":   "hijacked",
		"summary": "s",
		"content": "c",
	}, "", "")

	apitest.Handler(f.handler).
		Put("/post").
		Cookies(apitest.NewCookie("token").Value(bobSession)).
		Body(body).
		Header("Content-Type", contentType).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.title", "you are not the author")).
		End()

	// Unchanged after the rejected attempt.
	got, err := f.posts.Get(t.Context(), post.ID)
	require.NoError(t, err)
	require.Equal(t, "original", got.Title)
}

func TestUpdatePostKeepsCoverWithoutFile(t *testing.T) {
	f := newFixture(t)
	aliceID, aliceSession := f.sessionFor(t, "alice")

	post, err := f.posts.Create(t.Context(), aliceID, "original", "s", "c", "uploads/keep.png")
	require.NoError(t, err)

	body, contentType := multipartBody(t, map[string]string{
		"id":      strconv.FormatInt(post.ID, 10),
		"title":   "edited",
		"summary": "s2",
		"content": "c2",
	}, "", "")

	apitest.Handler(f.handler).
		Put("/post").
		Cookies(apitest.NewCookie("token").Value(aliceSession)).
		Body(body).
		Header("Content-Type", contentType).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.postDoc.title", "edited")).
		Assert(jsonpath.Equal("$.postDoc.cover", "uploads/keep.png")).
		End()
}

func TestUpdatePostReplacesCoverWithFile(t *testing.T) {
	f := newFixture(t)
	aliceID, aliceSession := f.sessionFor(t, "alice")

	post, err := f.posts.Create(t.Context(), aliceID, "original", "s", "c", "uploads/old.png")
	require.NoError(t, err)

	body, contentType := multipartBody(t, map[string]string{
		"id":      strconv.FormatInt(post.ID, 10),
		"title":   "edited",
		"summary": "s2",
		"content": "c2",
	}, "fresh.webp", "webp-bytes")

	apitest.Handler(f.handler).
		Put("/post").
		Cookies(apitest.NewCookie("token").Value(aliceSession)).
		Body(body).
		Header("Content-Type", contentType).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Matches("$.newPath", `^uploads/.+\.webp$`)).
		Assert(jsonpath.Matches("$.postDoc.cover", `^uploads/.+\.webp$`)).
		End()
}

func TestSSODisabled(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Get("/sso/login").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestCORSHeaders(t *testing.T) {
	f := newFixture(t)

	apitest.Handler(f.handler).
		Get("/post").
		Expect(t).
		Status(http.StatusOK).
		Header("Access-Control-Allow-Origin", "http://localhost:5173").
		Header("Access-Control-Allow-Credentials", "true").
		End()
}
