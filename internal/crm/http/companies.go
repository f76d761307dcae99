package http

import (
	"encoding/json"
	"net/http"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
)

type CompaniesHandler struct {
	AccountService *service.AccountService
}

type RegisterCompanyRequest struct {
	CompanyName     string `json:"company_name"`
	Plan            string `json:"plan"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type RegisterCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	User    UserResponse    `json:"user"`
}

// HandleRegister godoc
//
//	@Summary		Register a dealership
//	@Description	Creates a company and its founding superadmin user. Every other account enters through an invitation.
//	@Tags			Companies
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterCompanyRequest	true	"Signup payload"
//	@Success		201		{object}	RegisterCompanyResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/companies [post].
func (h *CompaniesHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	company, user, err := h.AccountService.RegisterCompany(r.Context(), service.RegisterCompanyParams{
		CompanyName:     req.CompanyName,
		Plan:            domain.Plan(req.Plan),
		Address:         req.Address,
		Phone:           req.Phone,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterCompanyResponse{
		Company: toCompanyResponse(company),
		User:    toUserResponse(user),
	})
}
