package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
)

type LeadsHandler struct {
	LeadService *service.LeadService
}

type LeadRequest struct {
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Source           string     `json:"source"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	Budget           string     `json:"budget"`
	VehicleInterest  string     `json:"vehicle_interest"`
	AssignedTo       string     `json:"assigned_to"`
	PreferredContact string     `json:"preferred_contact"`
	Timeframe        string     `json:"timeframe"`
	FollowUpDate     *time.Time `json:"follow_up_date"`
	Notes            string     `json:"notes"`
}

func (req LeadRequest) params() service.LeadParams {
	return service.LeadParams{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Source:           req.Source,
		Status:           domain.LeadStatus(req.Status),
		Priority:         req.Priority,
		Budget:           req.Budget,
		VehicleInterest:  req.VehicleInterest,
		AssignedTo:       req.AssignedTo,
		PreferredContact: req.PreferredContact,
		Timeframe:        req.Timeframe,
		FollowUpDate:     req.FollowUpDate,
		Notes:            req.Notes,
	}
}

// HandleList godoc
//
//	@Summary	List leads
//	@Tags		Leads
//	@Produce	json
//	@Success	200	{array}		LeadResponse
//	@Failure	403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/leads [get].
func (h *LeadsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	leads, err := h.LeadService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, toLeadResponse(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get a lead
//	@Tags		Leads
//	@Produce	json
//	@Param		id	path		string	true	"Lead id"
//	@Success	200	{object}	LeadResponse
//	@Failure	404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/leads/{id} [get].
func (h *LeadsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	lead, err := h.LeadService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadResponse(lead))
}

// HandleCreate godoc
//
//	@Summary	Create a lead
//	@Tags		Leads
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LeadRequest	true	"Lead payload"
//	@Success	201		{object}	LeadResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/leads [post].
func (h *LeadsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	lead, err := h.LeadService.Create(r.Context(), actor, req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toLeadResponse(lead))
}

// HandleUpdate godoc
//
//	@Summary	Update a lead
//	@Tags		Leads
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string		true	"Lead id"
//	@Param		request	body		LeadRequest	true	"Lead payload"
//	@Success	200		{object}	LeadResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure	404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/leads/{id} [put].
func (h *LeadsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	lead, err := h.LeadService.Update(r.Context(), actor, r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toLeadResponse(lead))
}

// HandleDelete godoc
//
//	@Summary	Delete a lead
//	@Tags		Leads
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/leads/{id} [delete].
func (h *LeadsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.LeadService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
