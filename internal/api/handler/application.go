package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/api/validation"
	"github.com/portcullis-auth/portcullis/internal/application"
)

// ApplicationHandler serves the /v1/applications endpoints.
type ApplicationHandler struct {
	apps application.Repository
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(apps application.Repository) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

// applicationResponse is the serialized shape of an application. The client
// secret is omitted; only create and credential rotation disclose it, via
// applicationSecretResponse.
type applicationResponse struct {
	ID                         int64     `json:"id"`
	Name                       string    `json:"name"`
	Homepage                   string    `json:"homepage,omitempty"`
	Description                string    `json:"description,omitempty"`
	ClientID                   string    `json:"clientId"`
	ClientCredentialsUpdatedAt time.Time `json:"clientCredentialsUpdatedAt"`
	Status                     string    `json:"status"`
	CreatedAt                  time.Time `json:"createdAt"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}

type applicationSecretResponse struct {
	applicationResponse
	ClientSecret string `json:"clientSecret"`
}

func newApplicationResponse(a *application.Application) applicationResponse {
	return applicationResponse{
		ID:                         a.ID,
		Name:                       a.Name,
		Homepage:                   a.Homepage,
		Description:                a.Description,
		ClientID:                   a.ClientID,
		ClientCredentialsUpdatedAt: a.ClientCredentialsUpdatedAt,
		Status:                     string(a.Status),
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
}

type createApplicationBody struct {
	Name        string `json:"name"`
	Homepage    string `json:"homepage"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Create handles POST /v1/applications. The response is the only place the
// generated client secret appears besides credential rotation.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createApplicationBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateCreateApplication(validation.CreateApplicationRequest{
		Name:        body.Name,
		Homepage:    body.Homepage,
		Description: body.Description,
		Status:      body.Status,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	creds, err := application.NewCredentials()
	if err != nil {
		slog.Error("generating client credentials failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	status := application.StatusActive
	if body.Status != "" {
		status = application.Status(body.Status)
	}

	a := &application.Application{
		Name:         body.Name,
		Homepage:     body.Homepage,
		Description:  body.Description,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Status:       status,
	}
	if err := h.apps.Create(r.Context(), a); err != nil {
		slog.Error("creating application failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	response.Success(w, http.StatusCreated, map[string]applicationSecretResponse{
		"application": {
			applicationResponse: newApplicationResponse(a),
			ClientSecret:        a.ClientSecret,
		},
	})
}

// List handles GET /v1/applications. Supported query parameters: orderBy
// (asc|desc), pageNumber, itemsPerPage.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := application.ListFilter{OrderBy: r.URL.Query().Get("orderBy")}
	filter.Offset, filter.Limit = validation.PageWindow(queryInt(r, "pageNumber"), queryInt(r, "itemsPerPage"))

	apps, err := h.apps.List(r.Context(), filter)
	if err != nil {
		slog.Error("listing applications failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	out := make([]applicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, newApplicationResponse(&apps[i]))
	}
	response.Success(w, http.StatusOK, map[string][]applicationResponse{"applications": out})
}

// Get handles GET /v1/applications/{applicationID}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationID")
	if !ok {
		return
	}

	a, err := h.apps.GetByID(r.Context(), id)
	if err != nil {
		h.writeApplicationError(w, err, "fetching application")
		return
	}

	response.Success(w, http.StatusOK, map[string]applicationResponse{"application": newApplicationResponse(a)})
}

type updateApplicationBody struct {
	Name        string `json:"name"`
	Homepage    string `json:"homepage"`
	Description string `json:"description"`
}

// Update handles PUT /v1/applications/{applicationID}.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationID")
	if !ok {
		return
	}

	var body updateApplicationBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateApplication(validation.UpdateApplicationRequest{
		Name:        body.Name,
		Homepage:    body.Homepage,
		Description: body.Description,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	if err := h.apps.Update(r.Context(), id, body.Name, body.Homepage, body.Description); err != nil {
		h.writeApplicationError(w, err, "updating application")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

// RotateCredentials handles PUT /v1/applications/{applicationID}/credentials.
// The previous id/secret pair stops working immediately; tokens already issued
// stay valid until expiry.
func (h *ApplicationHandler) RotateCredentials(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationID")
	if !ok {
		return
	}

	creds, err := application.NewCredentials()
	if err != nil {
		slog.Error("generating client credentials failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	if err := h.apps.UpdateCredentials(r.Context(), id, creds); err != nil {
		h.writeApplicationError(w, err, "rotating credentials")
		return
	}

	response.Success(w, http.StatusOK, map[string]map[string]string{
		"credentials": {
			"clientId":     creds.ClientID,
			"clientSecret": creds.ClientSecret,
		},
	})
}

type updateApplicationStatusBody struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /v1/applications/{applicationID}/status.
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationID")
	if !ok {
		return
	}

	var body updateApplicationStatusBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateUpdateApplicationStatus(body.Status); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	if err := h.apps.UpdateStatus(r.Context(), id, application.Status(body.Status)); err != nil {
		h.writeApplicationError(w, err, "updating status")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

// Delete handles DELETE /v1/applications/{applicationID}.
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "applicationID")
	if !ok {
		return
	}

	if err := h.apps.Delete(r.Context(), id); err != nil {
		h.writeApplicationError(w, err, "deleting application")
		return
	}

	response.SuccessEmpty(w, http.StatusOK)
}

func (h *ApplicationHandler) writeApplicationError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, application.ErrApplicationNotFound) {
		response.FailEmpty(w, http.StatusNotFound)
		return
	}
	slog.Error(action+" failed", "error", err)
	response.FailEmpty(w, http.StatusInternalServerError)
}
