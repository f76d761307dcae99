package http

import (
	"encoding/json"
	"net/http"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/service"
	"github.com/carisma-crm/carisma/pkg/httpx"
)

type VehiclesHandler struct {
	VehicleService *service.VehicleService
}

type VehicleRequest struct {
	Make          string `json:"make"`
	Model         string `json:"model"`
	Year          int    `json:"year"`
	Price         int64  `json:"price_cents"`
	Mileage       int    `json:"mileage"`
	VIN           string `json:"vin"`
	ExteriorColor string `json:"exterior_color"`
	InteriorColor string `json:"interior_color"`
	Transmission  string `json:"transmission"`
	FuelType      string `json:"fuel_type"`
	Description   string `json:"description"`
	Status        string `json:"status"`
}

func (req VehicleRequest) params() service.VehicleParams {
	return service.VehicleParams{
		Make:          req.Make,
		Model:         req.Model,
		Year:          req.Year,
		Price:         req.Price,
		Mileage:       req.Mileage,
		VIN:           req.VIN,
		ExteriorColor: req.ExteriorColor,
		InteriorColor: req.InteriorColor,
		Transmission:  req.Transmission,
		FuelType:      req.FuelType,
		Description:   req.Description,
		Status:        domain.VehicleStatus(req.Status),
	}
}

// HandleList godoc
//
//	@Summary	List inventory
//	@Tags		Vehicles
//	@Produce	json
//	@Success	200	{array}		VehicleResponse
//	@Failure	403	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/vehicles [get].
func (h *VehiclesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	vehicles, err := h.VehicleService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, toVehicleResponse(v))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet godoc
//
//	@Summary	Get a vehicle
//	@Tags		Vehicles
//	@Produce	json
//	@Param		id	path		string	true	"Vehicle id"
//	@Success	200	{object}	VehicleResponse
//	@Failure	404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/vehicles/{id} [get].
func (h *VehiclesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	v, err := h.VehicleService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicleResponse(v))
}

// HandleCreate godoc
//
//	@Summary	Add a vehicle
//	@Tags		Vehicles
//	@Accept		json
//	@Produce	json
//	@Param		request	body		VehicleRequest	true	"Vehicle payload"
//	@Success	201		{object}	VehicleResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/vehicles [post].
func (h *VehiclesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	v, err := h.VehicleService.Create(r.Context(), actor, req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toVehicleResponse(v))
}

// HandleUpdate godoc
//
//	@Summary	Update a vehicle
//	@Tags		Vehicles
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Vehicle id"
//	@Param		request	body		VehicleRequest	true	"Vehicle payload"
//	@Success	200		{object}	VehicleResponse
//	@Failure	400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure	404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/vehicles/{id} [put].
func (h *VehiclesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req VehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	v, err := h.VehicleService.Update(r.Context(), actor, r.PathValue("id"), req.params())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toVehicleResponse(v))
}

// HandleDelete godoc
//
//	@Summary	Remove a vehicle
//	@Tags		Vehicles
//	@Success	204
//	@Failure	404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security	BearerAuth
//	@Router		/v1/vehicles/{id} [delete].
func (h *VehiclesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.VehicleService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
