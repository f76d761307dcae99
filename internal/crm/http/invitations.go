package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
)

type InvitationsHandler struct {
	InviteService *service.InviteService
}

type CreateInvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateInvitationResponse is the only place the bearer token crosses the
// wire back to staff: the creator may need it for out-of-band delivery when
// email is down.
type CreateInvitationResponse struct {
	Invitation InvitationResponse `json:"invitation"`
	Token      string             `json:"token"`
}

// HandleCreate godoc
//
//	@Summary		Create an invitation
//	@Description	Invites an email address to join the company with a role strictly below the caller's own.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateInvitationRequest	true	"Invitation payload"
//	@Success		201		{object}	CreateInvitationResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [post].
func (h *InvitationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	inv, err := h.InviteService.Create(r.Context(), actor, req.Email, domain.Role(req.Role))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateInvitationResponse{
		Invitation: toInvitationResponse(inv, time.Now()),
		Token:      inv.Token,
	})
}

// HandleList godoc
//
//	@Summary		List invitations
//	@Description	Lists the company's invitations, newest first. Pending rows past their deadline show as expired.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{array}		InvitationResponse
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations [get].
func (h *InvitationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	invs, err := h.InviteService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := time.Now()
	out := make([]InvitationResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toInvitationResponse(inv, now))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevoke godoc
//
//	@Summary		Revoke an invitation
//	@Description	Removes an invitation so its token can never be accepted. The caller must outrank the invited role.
//	@Tags			Invitations
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id} [delete].
func (h *InvitationsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.InviteService.Revoke(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleResend godoc
//
//	@Summary		Resend an invitation
//	@Description	Re-delivers a pending invitation email with the original token. The deadline is not extended.
//	@Tags			Invitations
//	@Success		204
//	@Failure		403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		410	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invitations/{id}/resend [post].
func (h *InvitationsHandler) HandleResend(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.InviteService.Resend(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
