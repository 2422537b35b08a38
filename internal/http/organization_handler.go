package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/pawdesk/internal/application"
)

type organizationService interface {
	CreateOrganization(ctx context.Context, input application.OrganizationInput, admin application.UserInput) (application.Organization, application.User, error)
	GetOrganization(ctx context.Context, principal application.Principal) (application.Organization, error)
	UpdateOrganization(ctx context.Context, principal application.Principal, input application.OrganizationInput) (application.Organization, error)
	IssueInvite(ctx context.Context, principal application.Principal, role string) (application.Invite, error)
	AcceptInvite(ctx context.Context, params application.AcceptInviteParams) (application.User, error)
}

// OrganizationHandler exposes tenant signup, settings and the invite flow.
type OrganizationHandler struct {
	service   organizationService
	responder responder
	logger    *slog.Logger
}

func NewOrganizationHandler(service organizationService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *OrganizationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "OrganizationHandler", operation, attrs...)
}

// Create is the public signup endpoint: one organization plus its first
// admin.
func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
		Admin    struct {
			Email       string `json:"email"`
			DisplayName string `json:"display_name"`
			Password    string `json:"password"`
		} `json:"admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	org, admin, err := h.service.CreateOrganization(r.Context(),
		application.OrganizationInput{Name: req.Name, Timezone: req.Timezone},
		application.UserInput{Email: req.Admin.Email, DisplayName: req.Admin.DisplayName, Password: req.Admin.Password},
	)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "org_id", org.ID).InfoContext(r.Context(), "organization signed up")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, struct {
		Organization organizationDTO `json:"organization"`
		Admin        userDTO         `json:"admin"`
	}{toOrganizationDTO(org), toUserDTO(admin)})
}

// GetCurrent returns the caller's organization.
func (h *OrganizationHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	org, err := h.service.GetOrganization(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrganizationDTO(org))
}

// UpdateCurrent updates the caller's organization.
func (h *OrganizationHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	org, err := h.service.UpdateOrganization(r.Context(), principal, application.OrganizationInput{
		Name:     req.Name,
		Timezone: req.Timezone,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toOrganizationDTO(org))
}

// IssueInvite mints an invite token for the caller's organization.
func (h *OrganizationHandler) IssueInvite(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	invite, err := h.service.IssueInvite(r.Context(), principal, req.Role)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, struct {
		Token     string `json:"token"`
		Role      string `json:"role"`
		ExpiresAt string `json:"expires_at"`
	}{invite.Token, invite.Role, invite.ExpiresAt.UTC().Format(time.RFC3339Nano)})
}

// AcceptInvite is the public endpoint that redeems an invite token.
func (h *OrganizationHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req struct {
		Token       string `json:"token"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Password    string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.AcceptInvite(r.Context(), application.AcceptInviteParams{
		Token:       req.Token,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "AcceptInvite", "user_id", user.ID).InfoContext(r.Context(), "invite redeemed")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toUserDTO(user))
}

type organizationDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toOrganizationDTO(org application.Organization) organizationDTO {
	return organizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		Timezone:  org.Timezone,
		CreatedAt: org.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: org.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
