package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
)

// InviteAcceptHandler serves the public accept flow: the invitee holds only
// the emailed token, no session.
type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

type AcceptInvitationRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// HandleResolve godoc
//
//	@Summary		Inspect an invitation token
//	@Description	Lets the signup form show who is being invited and as what before any account exists.
//	@Tags			Invitations
//	@Produce		json
//	@Param			token	path		string	true	"Invitation token"
//	@Success		200		{object}	InvitationResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/accept/{token} [get].
func (h *InviteAcceptHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	inv, err := h.InviteService.Resolve(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toInvitationResponse(inv, time.Now()))
}

// HandleAccept godoc
//
//	@Summary		Accept an invitation
//	@Description	Creates the invited account with the role fixed at invitation time. Each token is accepted at most once.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string					true	"Invitation token"
//	@Param			request	body		AcceptInvitationRequest	true	"Profile for the new account"
//	@Success		201		{object}	UserResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/invitations/accept/{token} [post].
func (h *InviteAcceptHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.InviteService.Accept(r.Context(), r.PathValue("token"), service.AcceptProfile{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}
