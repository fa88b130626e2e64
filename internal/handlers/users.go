package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/sitecms/internal/services"
	"github.com/charlesng35/sitecms/pkg/response"
)

// UserHandler exposes account management to administrators.
type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{Total: len(users)})
}

// GET /api/admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.Get(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var body services.CreateUserInput
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.svc.Create(requestContext(c), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, user)
}

// PUT /api/admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var body services.UpdateUserInput
	if !bindAndValidate(c, &body) {
		return
	}

	user, err := h.svc.Update(requestContext(c), c.Param("id"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
