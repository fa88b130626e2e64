package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/sitecms/internal/api"
	"github.com/charlesng35/sitecms/internal/app"
	iauth "github.com/charlesng35/sitecms/internal/auth"
	sharedtestutil "github.com/charlesng35/sitecms/internal/database/testutil"
	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/crypto"
	"github.com/charlesng35/sitecms/pkg/response"
)

// JWTSecret signs every token issued inside a test environment.
const JWTSecret = "test-suite-super-secret-key-32-bytes!!"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Config *app.Config
	Now    time.Time
}

// EnvOption customises the configuration before the router is built.
type EnvOption func(*app.Config)

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T, opts ...EnvOption) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg, err := app.LoadConfig("", t.TempDir())
	require.NoError(t, err)
	cfg.Server.Environment = "test"
	cfg.Auth.JWT.Secret = JWTSecret
	cfg.Auth.JWT.Issuer = "test-suite"
	cfg.Auth.JWT.TTL = time.Hour
	for _, opt := range opts {
		opt(cfg)
	}

	env := &Env{T: t, DB: db, Config: cfg, Now: time.Now()}
	clock := func() time.Time { return env.Now }

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig(clock))
	require.NoError(t, err)

	router, err := api.NewRouter(api.Deps{Config: cfg, DB: db, Clock: clock})
	require.NoError(t, err)

	env.Router = router
	env.JWT = jwtSvc
	return env
}

// Advance moves the shared clock forward.
func (e *Env) Advance(d time.Duration) {
	e.Now = e.Now.Add(d)
}

// CreateUser inserts a user with the given role and a random email and returns the record.
func (e *Env) CreateUser(role models.Role, password string) *models.User {
	e.T.Helper()

	hashed, err := crypto.HashPassword(password)
	require.NoError(e.T, err)

	user := &models.User{
		Email:    "user-" + uuid.NewString() + "@example.com",
		Name:     "Test " + string(role),
		Password: hashed,
		Role:     role,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// UserPayload captures the subset of user fields returned from auth endpoints.
type UserPayload struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

// LoginResult bundles the JSON response from POST /api/auth/login and the issued cookie.
type LoginResult struct {
	User      UserPayload `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
	Token     string      `json:"-"`
}

// Login authenticates with email and password and returns the session token from the cookie.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.Equal(e.T, email, result.User.Email)

	cookie := AuthCookie(w, e.Config.Auth.CookieName())
	require.NotNil(e.T, cookie, "login must set the auth cookie")
	result.Token = cookie.Value
	require.NotEmpty(e.T, result.Token)
	return result
}

// AuthCookie returns the named cookie from a recorded response, or nil.
func AuthCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.Do(req, token)
}

// Upload posts a multipart form with a single file field to path.
func (e *Env) Upload(path, filename, contentType string, data []byte, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	require.NoError(e.T, err)
	_, err = part.Write(data)
	require.NoError(e.T, err)
	require.NoError(e.T, form.WriteField("alt", "alt text"))
	require.NoError(e.T, form.Close())

	req, err := http.NewRequest(http.MethodPost, path, &body)
	require.NoError(e.T, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return e.Do(req, token)
}

// Do serves req, attaching token as a bearer credential when set.
func (e *Env) Do(req *http.Request, token string) *httptest.ResponseRecorder {
	e.T.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// WithCSRF enables CSRF protection on admin routes.
func WithCSRF() EnvOption {
	return func(cfg *app.Config) {
		cfg.Server.CSRF.Enabled = true
	}
}

// CSRFHeader is the header a client echoes the CSRF cookie into.
const CSRFHeader = middleware.CSRFHeaderName
