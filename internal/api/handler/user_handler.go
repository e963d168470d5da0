package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

type UserHandler struct {
	store ports.ClubStore
}

func NewUserHandler(store ports.ClubStore) *UserHandler {
	return &UserHandler{store: store}
}

// List returns every user, administrators included.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponses(h.store.ListUsers()))
}

// Members returns the MEMBER users only.
//
// @Summary      List members
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/members [get]
func (h *UserHandler) Members(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResponses(domain.Members(h.store.ListUsers())))
}

// Create adds a member account.
//
// @Summary      Create member
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Member credentials"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.store.AddUser(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(*user))
}

// Delete removes a user. Tasks and attendance keep the dangling id.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.store.FindUser(id); !ok {
		return domain.ErrUserNotFound
	}
	if err := h.store.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
