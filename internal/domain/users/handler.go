package users

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/form"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/ports/photos"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger, maxPhotoBytes int64) {
	h := &handler{svc: svc, log: log, maxPhotoBytes: maxPhotoBytes}

	r.Post("/users/register", h.register)
	r.Post("/users/login", h.login)

	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)
		ar.Get("/users/me", h.me)
		ar.Put("/users/me", h.update)
		ar.Delete("/users/me", h.delete)
	})
}

type handler struct {
	svc           *Service
	log           logger.Logger
	maxPhotoBytes int64
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	State    *string `json:"state"`
}

// userResponse es el perfil público de una cuenta.
type userResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// register godoc
// @Summary Registrar usuario
// @Description Crea una cuenta y devuelve un token de acceso.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de la cuenta"
// @Success 201 {object} authResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody "email ya registrado"
// @Router /users/register [post]
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, tok, err := h.svc.Register(r.Context(), RegisterInput(req))
	if err != nil {
		h.fail(w, r, "users.register", err)
		return
	}
	respond.JSON(w, http.StatusCreated, authResponse{Message: "user registered", Token: tok, User: toUserResponse(u)})
}

// login godoc
// @Summary Iniciar sesión
// @Tags users
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} authResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody "credenciales inválidas"
// @Router /users/login [post]
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, tok, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "users.login", err)
		return
	}
	respond.JSON(w, http.StatusOK, authResponse{Message: "login successful", Token: tok, User: toUserResponse(u)})
}

// me godoc
// @Summary Perfil propio
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userResponse
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /users/me [get]
func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	u, err := h.svc.Profile(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "users.me", err)
		return
	}
	respond.JSON(w, http.StatusOK, toUserResponse(u))
}

// update godoc
// @Summary Actualizar perfil propio
// @Description Acepta JSON o multipart/form-data con un archivo `photo` para la foto de perfil.
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body updateRequest false "Campos a modificar"
// @Success 200 {object} userResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 409 {object} respond.ErrorBody
// @Router /users/me [put]
func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	var (
		req   updateRequest
		photo io.Reader
	)
	if form.IsMultipart(r) {
		mp, err := form.ParseMultipart(w, r, h.maxPhotoBytes)
		if err != nil {
			h.fail(w, r, "users.update", err)
			return
		}
		defer mp.Close()
		req = updateRequest{
			Name:     form.String(mp.Values, "name"),
			Email:    form.String(mp.Values, "email"),
			Password: form.String(mp.Values, "password"),
			Phone:    form.String(mp.Values, "phone"),
			City:     form.String(mp.Values, "city"),
			State:    form.String(mp.Values, "state"),
		}
		photo = mp.Photo
	} else if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), uid, UpdateInput(req), photo)
	if err != nil {
		h.fail(w, r, "users.update", err)
		return
	}
	respond.JSON(w, http.StatusOK, toUserResponse(u))
}

// delete godoc
// @Summary Borrar cuenta propia
// @Description Borra la cuenta junto con sus mascotas, solicitudes y mensajes.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /users/me [delete]
func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.svc.Delete(r.Context(), uid); err != nil {
		h.fail(w, r, "users.delete", err)
		return
	}
	respond.Message(w, http.StatusOK, "user deleted")
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, form.ErrBadForm), photos.IsInvalid(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEmailTaken):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	default:
		respond.Internal(w, r, h.log, op, err)
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		City:         u.City,
		State:        u.State,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
	}
}
