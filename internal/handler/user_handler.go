package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"custcrm/internal/auth"
	apperrors "custcrm/internal/errors"
	"custcrm/internal/model"
	"custcrm/internal/service"
)

const userListPath = "/users/"

// UserHandler handles user management and the caller's own profile.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserForm is a user create/edit submission. Password may be left blank to
// keep the current one.
type UserForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=150"`
	Email     string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Password  string `form:"password" json:"-"`
	Role      string `form:"role" json:"role" validate:"required,oneof=admin team_lead user"`
}

// ProfileForm is what a user may change about their own account.
type ProfileForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=150"`
	Email     string `form:"email" json:"email" validate:"omitempty,email,max=254"`
	Password  string `form:"password" json:"-"`
}

func userForm(u *model.User) UserForm {
	return UserForm{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role()),
	}
}

// UserListResponse is the user list page.
type UserListResponse struct {
	Users []model.User `json:"users"`
}

// UserFormResponse is the state of a user form.
type UserFormResponse struct {
	Action string       `json:"action"`
	Form   UserForm     `json:"form"`
	Roles  []model.Role `json:"roles"`
}

// UserDetailResponse is a single user page.
type UserDetailResponse struct {
	User          *model.User `json:"user"`
	ConfirmDelete bool        `json:"confirm_delete,omitempty"`
}

// ProfileResponse is the profile form state.
type ProfileResponse struct {
	Form ProfileForm `json:"form"`
}

// List godoc
// @Summary List users, staff first
// @Tags users
// @Produce json
// @Success 200 {object} UserListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserListResponse{Users: users})
}

// AddForm godoc
// @Summary Empty user form
// @Tags users
// @Produce json
// @Success 200 {object} UserFormResponse
// @Router /users/add/ [get]
func (h *UserHandler) AddForm(c echo.Context) error {
	return c.JSON(http.StatusOK, UserFormResponse{Action: "Add", Roles: model.Roles})
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string false "Password"
// @Param role formData string true "admin, team_lead or user"
// @Success 302 "Redirect to the user list"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse "Only admins may create admins"
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/add/ [post]
func (h *UserHandler) Create(c echo.Context) error {
	var form UserForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if err := h.authorize(c, model.Role(form.Role), 0); err != nil {
		return respondError(err)
	}
	if _, err := h.users.CreateUser(c.Request().Context(), userInput(form)); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, userListPath)
}

// Detail godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/ [get]
func (h *UserHandler) Detail(c echo.Context) error {
	return h.detail(c, false)
}

// DeleteConfirm godoc
// @Summary Confirm user deletion
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserDetailResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/delete/ [get]
func (h *UserHandler) DeleteConfirm(c echo.Context) error {
	return h.detail(c, true)
}

func (h *UserHandler) detail(c echo.Context, confirmDelete bool) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserDetailResponse{User: user, ConfirmDelete: confirmDelete})
}

// EditForm godoc
// @Summary Current values of a user form, including the derived role
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserFormResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/edit/ [get]
func (h *UserHandler) EditForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, UserFormResponse{Action: "Edit", Form: userForm(user), Roles: model.Roles})
}

// Update godoc
// @Summary Update a user
// @Tags users
// @Accept x-www-form-urlencoded
// @Param id path int true "User ID"
// @Param username formData string true "Username"
// @Param password formData string false "Leave blank to keep the current password"
// @Param role formData string true "admin, team_lead or user"
// @Success 302 "Redirect to the user list"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse "Only admins may edit admins or grant admin"
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/edit/ [post]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var form UserForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	if err := h.authorize(c, model.Role(form.Role), id); err != nil {
		return respondError(err)
	}
	if _, err := h.users.UpdateUser(c.Request().Context(), id, userInput(form)); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, userListPath)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Param id path int true "User ID"
// @Success 302 "Redirect to the user list"
// @Failure 403 {object} errors.ErrorResponse "Only admins may delete admins"
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/delete/ [post]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.authorize(c, "", id); err != nil {
		return respondError(err)
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, userListPath)
}

// ProfileForm godoc
// @Summary The signed-in user's profile form
// @Tags profile
// @Produce json
// @Success 200 {object} ProfileResponse
// @Router /profile/edit/ [get]
func (h *UserHandler) ProfileForm(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return respondError(apperrors.ErrUnauthenticated)
	}
	user, err := h.users.GetUser(c.Request().Context(), id.UserID)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Form: ProfileForm{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}})
}

// UpdateProfile godoc
// @Summary Update the signed-in user's profile
// @Tags profile
// @Accept x-www-form-urlencoded
// @Param username formData string true "Username"
// @Param password formData string false "Leave blank to keep the current password"
// @Success 302 "Redirect to the customer list"
// @Failure 400 {object} errors.ErrorResponse
// @Router /profile/edit/ [post]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return respondError(apperrors.ErrUnauthenticated)
	}
	var form ProfileForm
	if err := bindForm(c, &form); err != nil {
		return err
	}
	_, err := h.users.UpdateProfile(c.Request().Context(), id.UserID, service.ProfileInput{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		return respondError(err)
	}
	return c.Redirect(http.StatusFound, customerListPath)
}

// authorize keeps admin accounts in admin hands: other staff may neither
// assign the admin role nor change or delete a user who holds it. A zero
// target skips the lookup.
func (h *UserHandler) authorize(c echo.Context, role model.Role, target uint) error {
	actor, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if role == model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	if target == 0 {
		return nil
	}
	user, err := h.users.GetUser(c.Request().Context(), target)
	if err != nil {
		return err
	}
	if user.Role() == model.RoleAdmin {
		return apperrors.ErrForbidden
	}
	return nil
}

func userInput(f UserForm) service.UserInput {
	return service.UserInput{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Role:      model.Role(f.Role),
	}
}
