package adoptions

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/respond"
)

// Las dos rutas usan {id} en la misma posición: en POST es la mascota,
// en /status es la solicitud.
func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	h := &handler{svc: svc, log: log}

	r.Route("/adoptions", func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)
		ar.Get("/mine", h.mine)
		ar.Get("/received", h.received)
		ar.Post("/{id}", h.create)
		ar.Put("/{id}/status", h.decide)
	})
}

type handler struct {
	svc *Service
	log logger.Logger
}

type createResponse struct {
	Message    string `json:"message"`
	IDAdoption int64  `json:"id_adoption"`
}

type decideRequest struct {
	Status string `json:"status" enums:"Accepted,Declined"`
}

type decideResponse struct {
	Message string `json:"message"`
	Status  Status `json:"status"`
}

type mineResponse struct {
	ID         int64      `json:"id"`
	PetID      int64      `json:"pet_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	PetName    string     `json:"pet_name"`
	PetPhoto   string     `json:"pet_photo,omitempty"`
	HolderName string     `json:"holder_name"`
}

type receivedResponse struct {
	ID             int64      `json:"id"`
	PetID          int64      `json:"pet_id"`
	RequesterID    int64      `json:"requester_id"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	PetName        string     `json:"pet_name"`
	PetPhoto       string     `json:"pet_photo,omitempty"`
	RequesterName  string     `json:"requester_name"`
	RequesterEmail string     `json:"requester_email"`
}

// create godoc
// @Summary Solicitar adopción
// @Description Crea una solicitud Pending. La mascota debe estar Available, no ser propia y no tener otra solicitud Pending.
// @Tags adoptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de la mascota"
// @Success 201 {object} createResponse
// @Failure 400 {object} respond.ErrorBody "mascota no disponible / mascota propia"
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody "ya existe una solicitud pendiente"
// @Router /adoptions/{id} [post]
func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	petID, ok := pathID(r)
	if !ok {
		metrics.RecordAdoptionRequest("not_found")
		respond.Error(w, http.StatusNotFound, "pet not found")
		return
	}

	req, err := h.svc.Request(r.Context(), uid, petID)
	metrics.RecordAdoptionRequest(outcome(err))
	if err != nil {
		h.fail(w, r, "adoptions.create", err)
		return
	}
	respond.JSON(w, http.StatusCreated, createResponse{Message: "adoption request created", IDAdoption: req.ID})
}

// mine godoc
// @Summary Mis solicitudes
// @Tags adoptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} mineResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /adoptions/mine [get]
func (h *handler) mine(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	items, err := h.svc.ListMine(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "adoptions.mine", err)
		return
	}
	out := make([]mineResponse, 0, len(items))
	for _, v := range items {
		out = append(out, mineResponse{
			ID:         v.ID,
			PetID:      v.PetID,
			Status:     v.Status,
			CreatedAt:  v.CreatedAt,
			DecidedAt:  v.DecidedAt,
			PetName:    v.PetName,
			PetPhoto:   v.PetPhoto,
			HolderName: v.HolderName,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}

// received godoc
// @Summary Solicitudes recibidas
// @Description Solicitudes sobre mascotas del usuario, más recientes primero.
// @Tags adoptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} receivedResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /adoptions/received [get]
func (h *handler) received(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	items, err := h.svc.ListReceived(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "adoptions.received", err)
		return
	}
	out := make([]receivedResponse, 0, len(items))
	for _, v := range items {
		out = append(out, receivedResponse{
			ID:             v.ID,
			PetID:          v.PetID,
			RequesterID:    v.RequesterID,
			Status:         v.Status,
			CreatedAt:      v.CreatedAt,
			DecidedAt:      v.DecidedAt,
			PetName:        v.PetName,
			PetPhoto:       v.PetPhoto,
			RequesterName:  v.RequesterName,
			RequesterEmail: v.RequesterEmail,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}

// decide godoc
// @Summary Aceptar o rechazar una solicitud
// @Description Solo el responsable de la mascota, y solo sobre solicitudes Pending. Aceptar marca la mascota como Adopted.
// @Tags adoptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID de la solicitud"
// @Param payload body decideRequest true "Accepted o Declined"
// @Success 200 {object} decideResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 403 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /adoptions/{id}/status [put]
func (h *handler) decide(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	var body decideRequest
	if err := respond.DecodeJSON(r, &body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	decision, ok := ParseDecision(body.Status)
	if !ok {
		metrics.RecordAdoptionDecision("invalid", "invalid_operation")
		respond.Error(w, http.StatusBadRequest, "status must be Accepted or Declined")
		return
	}

	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusNotFound, "adoption request not found")
		return
	}

	req, err := h.svc.Decide(r.Context(), uid, id, decision)
	metrics.RecordAdoptionDecision(string(decision), outcome(err))
	if err != nil {
		h.fail(w, r, "adoptions.decide", err)
		return
	}
	respond.JSON(w, http.StatusOK, decideResponse{Message: "adoption request " + string(req.Status), Status: req.Status})
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidState):
		respond.Error(w, http.StatusBadRequest, "pet or request is not in a valid state for this operation")
	case errors.Is(err, ErrInvalidOperation):
		respond.Error(w, http.StatusBadRequest, "cannot adopt your own pet")
	case errors.Is(err, ErrConflict):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "only the pet holder can decide this request")
	default:
		respond.Internal(w, r, h.log, op, err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
