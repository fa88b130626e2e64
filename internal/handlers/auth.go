package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/middleware"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/errors"
	"github.com/charlesng35/sitecms/pkg/response"
)

// DefaultAuthCookie names the cookie carrying the signed token.
const DefaultAuthCookie = "auth-token"

// CookieSettings controls the auth cookie attributes.
type CookieSettings struct {
	Name string
	// Secure forces the Secure attribute. TLS requests always get it.
	Secure bool
}

// AuthHandler manages authentication flows (login/logout/me).
type AuthHandler struct {
	svc    *services.AuthService
	cookie CookieSettings
}

func NewAuthHandler(svc *services.AuthService, cookie CookieSettings) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = DefaultAuthCookie
	}
	return &AuthHandler{svc: svc, cookie: cookie}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      *models.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.svc.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, result.Token, int(h.svc.TokenTTL().Seconds()))
	response.Success(c, http.StatusOK, loginResponse{User: result.User, ExpiresAt: result.ExpiresAt})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		respondError(c, errors.ErrUnauthorized)
		return
	}

	user, err := h.svc.Me(requestContext(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	secure := h.cookie.Secure || middleware.IsSecureRequest(c.Request)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", secure, true)
}
