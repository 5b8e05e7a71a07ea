package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/api/validation"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/user"
)

// UserHandler serves the /v1/users endpoints.
type UserHandler struct {
	users user.Repository
	auth  *auth.Service
}

// NewUserHandler creates a UserHandler. The auth service supplies password
// hashing for create and password-change requests.
func NewUserHandler(users user.Repository, authService *auth.Service) *UserHandler {
	return &UserHandler{users: users, auth: authService}
}

// userResponse is the serialized shape of a user. The password hash never
// leaves the server.
type userResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	EmailAddress string    `json:"emailAddress"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		EmailAddress: u.EmailAddress,
		Role:         string(u.Role),
		Status:       string(u.Status),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

type createUserBody struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	Status       string `json:"status"`
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createUserBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateCreateUser(validation.CreateUserRequest{
		Name:         body.Name,
		EmailAddress: body.EmailAddress,
		Password:     body.Password,
		Role:         body.Role,
		Status:       body.Status,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	hash, err := h.auth.HashPassword(body.Password)
	if err != nil {
		slog.Error("hashing password failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	role := user.RoleSuperAdmin
	if body.Role != "" {
		role = user.Role(body.Role)
	}
	status := user.StatusActive
	if body.Status != "" {
		status = user.Status(body.Status)
	}

	u := &user.User{
		Name:         body.Name,
		EmailAddress: body.EmailAddress,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Fail(w, http.StatusBadRequest, map[string]string{
				"emailAddress": msgEmailTaken,
			})
			return
		}
		slog.Error("creating user failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	response.Success(w, http.StatusCreated, map[string]userResponse{"user": newUserResponse(u)})
}

// List handles GET /v1/users. Supported query parameters: role OR status,
// orderBy (asc|desc), pageNumber, itemsPerPage.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := user.ListFilter{OrderBy: q.Get("orderBy")}
	if v := q.Get("role"); v != "" {
		role := user.Role(v)
		if !role.Valid() {
			response.Fail(w, http.StatusBadRequest, map[string]string{"role": "Please select a valid role"})
			return
		}
		filter.Role = &role
	} else if v := q.Get("status"); v != "" {
		status := user.Status(v)
		if !status.Valid() {
			response.Fail(w, http.StatusBadRequest, map[string]string{"status": "Please select a valid status"})
			return
		}
		filter.Status = &status
	}
	filter.Offset, filter.Limit = validation.PageWindow(queryInt(r, "pageNumber"), queryInt(r, "itemsPerPage"))

	users, err := h.users.List(r.Context(), filter)
	if err != nil {
		slog.Error("listing users failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, newUserResponse(&users[i]))
	}
	response.Success(w, http.StatusOK, map[string][]userResponse{"users": out})
}

// Get handles GET /v1/users/{userID}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		h.writeUserError(w, err, "fetching user")
		return
	}

	response.Success(w, http.StatusOK, map[string]userResponse{"user": newUserResponse(u)})
}

type updateUserBody struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}

// Update handles PUT /v1/users/{userID}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var body updateUserBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateUser(validation.UpdateUserRequest{
		Name:         body.Name,
		EmailAddress: body.EmailAddress,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	if err := h.users.Update(r.Context(), id, body.Name, body.EmailAddress); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Fail(w, http.StatusBadRequest, map[string]string{
				"emailAddress": msgEmailTaken,
			})
			return
		}
		h.writeUserError(w, err, "updating user")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

type updateUserPasswordBody struct {
	NewPassword string `json:"newPassword"`
}

// UpdatePassword handles PUT /v1/users/{userID}/password.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var body updateUserPasswordBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateUserPassword(body.NewPassword); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	hash, err := h.auth.HashPassword(body.NewPassword)
	if err != nil {
		slog.Error("hashing password failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	if err := h.users.UpdatePassword(r.Context(), id, hash); err != nil {
		h.writeUserError(w, err, "updating password")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

type updateUserRoleBody struct {
	Role string `json:"role"`
}

// UpdateRole handles PUT /v1/users/{userID}/role.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var body updateUserRoleBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateUserRole(body.Role); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	if err := h.users.UpdateRole(r.Context(), id, user.Role(body.Role)); err != nil {
		h.writeUserError(w, err, "updating role")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

type updateUserStatusBody struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /v1/users/{userID}/status.
func (h *UserHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	var body updateUserStatusBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateUserStatus(body.Status); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	if err := h.users.UpdateStatus(r.Context(), id, user.Status(body.Status)); err != nil {
		h.writeUserError(w, err, "updating status")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

// Delete handles DELETE /v1/users/{userID}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		h.writeUserError(w, err, "deleting user")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

func (h *UserHandler) writeUserError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, user.ErrUserNotFound) {
		response.FailEmpty(w, http.StatusNotFound)
		return
	}
	slog.Error(action+" failed", "error", err)
	response.FailEmpty(w, http.StatusInternalServerError)
}
