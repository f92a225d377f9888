package messages

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

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	h := &handler{svc: svc, log: log}

	r.Route("/messages", func(mr chi.Router) {
		mr.Use(middleware.RequireAuth)
		mr.Post("/", h.send)
		mr.Get("/conversations", h.conversations)
		mr.Get("/{userID}", h.thread)
	})
}

type handler struct {
	svc *Service
	log logger.Logger
}

type sendRequest struct {
	RecipientID int64  `json:"recipient_id"`
	PetID       *int64 `json:"pet_id"`
	Content     string `json:"content"`
}

// messageResponse representa un mensaje del hilo.
type messageResponse struct {
	ID            int64     `json:"id"`
	SenderID      int64     `json:"sender_id"`
	RecipientID   int64     `json:"recipient_id"`
	PetID         *int64    `json:"pet_id,omitempty"`
	Content       string    `json:"content"`
	SentAt        time.Time `json:"sent_at"`
	SenderName    string    `json:"sender_name,omitempty"`
	RecipientName string    `json:"recipient_name,omitempty"`
}

type partnerResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
}

// send godoc
// @Summary Enviar mensaje
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body sendRequest true "Destinatario, contenido y mascota opcional"
// @Success 201 {object} messageResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody "destinatario o mascota inexistente"
// @Router /messages [post]
func (h *handler) send(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	var req sendRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	m, err := h.svc.Send(r.Context(), uid, SendInput(req))
	if err != nil {
		h.fail(w, r, "messages.send", err)
		return
	}
	metrics.RecordMessageSent()
	respond.JSON(w, http.StatusCreated, toMessageResponse(ThreadMessage{Message: m}))
}

// conversations godoc
// @Summary Conversaciones
// @Description Usuarios con los que se intercambiaron mensajes.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} partnerResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /messages/conversations [get]
func (h *handler) conversations(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	items, err := h.svc.ListConversations(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "messages.conversations", err)
		return
	}
	out := make([]partnerResponse, 0, len(items))
	for _, p := range items {
		out = append(out, partnerResponse(p))
	}
	respond.JSON(w, http.StatusOK, out)
}

// thread godoc
// @Summary Hilo con un usuario
// @Description Mensajes en orden de envío. `after` devuelve solo los posteriores a ese id (polling).
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userID path int true "ID del otro usuario"
// @Param after query int false "Último id ya recibido"
// @Success 200 {array} messageResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Router /messages/{userID} [get]
func (h *handler) thread(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	otherID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var after int64
	if raw := r.URL.Query().Get("after"); raw != "" {
		if after, err = strconv.ParseInt(raw, 10, 64); err != nil {
			respond.Error(w, http.StatusBadRequest, "after must be a message id")
			return
		}
	}

	items, err := h.svc.ListThread(r.Context(), uid, otherID, after)
	if err != nil {
		h.fail(w, r, "messages.thread", err)
		return
	}
	out := make([]messageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMessageResponse(m))
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, "recipient and non-empty content are required")
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		respond.Internal(w, r, h.log, op, err)
	}
}

func toMessageResponse(m ThreadMessage) messageResponse {
	return messageResponse{
		ID:            m.ID,
		SenderID:      m.SenderID,
		RecipientID:   m.RecipientID,
		PetID:         m.PetID,
		Content:       m.Content,
		SentAt:        m.SentAt,
		SenderName:    m.SenderName,
		RecipientName: m.RecipientName,
	}
}
