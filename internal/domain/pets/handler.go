package pets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
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

	// Catálogo público
	r.Get("/pets", h.list)
	r.Get("/pets/{petID}", h.get)

	r.Group(func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)
		ar.Post("/pets", h.create)
		ar.Put("/pets/{petID}", h.update)
		ar.Delete("/pets/{petID}", h.delete)
		ar.Get("/users/me/pets", h.mine)
	})
}

type handler struct {
	svc           *Service
	log           logger.Logger
	maxPhotoBytes int64
}

// petPayload sirve para crear y para el patch de PUT (nil = no tocar).
type petPayload struct {
	Name        *string  `json:"name"`
	Species     *string  `json:"species" example:"dog"`
	Breed       *string  `json:"breed"`
	Age         *int     `json:"age"`
	Sex         *string  `json:"sex" enums:"male,female,unknown"`
	Size        *string  `json:"size"`
	Color       *string  `json:"color"`
	Description *string  `json:"description"`
	Status      *string  `json:"status" enums:"Available,Adopted,Lost,Found"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID          int64     `json:"id"`
	HolderID    int64     `json:"holder_id"`
	Name        string    `json:"name"`
	Species     Species   `json:"species"`
	Breed       string    `json:"breed"`
	Age         *int      `json:"age,omitempty"`
	Sex         Sex       `json:"sex"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	Photo       string    `json:"photo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listingResponse struct {
	petResponse
	HolderName  string `json:"holder_name"`
	HolderEmail string `json:"holder_email"`
	HolderPhone string `json:"holder_phone"`
	HolderCity  string `json:"holder_city"`
	HolderState string `json:"holder_state"`
}

// list godoc
// @Summary Listar mascotas publicadas
// @Description Catálogo público, más recientes primero. Ciudad y estado filtran por los del responsable.
// @Tags pets
// @Produce json
// @Param status query string false "Available | Adopted | Lost | Found"
// @Param species query string false "Especie"
// @Param city query string false "Ciudad del responsable"
// @Param state query string false "Estado del responsable"
// @Success 200 {array} listingResponse
// @Failure 400 {object} respond.ErrorBody
// @Router /pets [get]
func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilter{
		Species: Species(q.Get("species")),
		City:    q.Get("city"),
		State:   q.Get("state"),
	}
	if raw := q.Get("status"); raw != "" {
		st, ok := ParseStatus(raw)
		if !ok {
			respond.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = st
	}

	items, err := h.svc.List(r.Context(), f)
	if err != nil {
		h.fail(w, r, "pets.list", err)
		return
	}
	out := make([]listingResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toListingResponse(l))
	}
	respond.JSON(w, http.StatusOK, out)
}

// get godoc
// @Summary Detalle de mascota
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} listingResponse
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [get]
func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "petID")
	if !ok {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	l, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "pets.get", err)
		return
	}
	respond.JSON(w, http.StatusOK, toListingResponse(l))
}

// create godoc
// @Summary Publicar mascota
// @Description Acepta JSON o multipart/form-data con un archivo `photo` (jpeg, png, gif o webp).
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body petPayload true "Datos de la mascota; species, sex y status son obligatorios"
// @Success 201 {object} petResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Router /pets [post]
func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	in, photo, done, err := h.readPayload(w, r)
	if err != nil {
		h.fail(w, r, "pets.create", err)
		return
	}
	defer done()

	p, err := h.svc.Create(r.Context(), uid, CreateInput{
		Name:        deref(in.Name),
		Species:     deref(in.Species),
		Breed:       deref(in.Breed),
		Age:         in.Age,
		Sex:         deref(in.Sex),
		Size:        deref(in.Size),
		Color:       deref(in.Color),
		Description: deref(in.Description),
		Status:      deref(in.Status),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}, photo)
	if err != nil {
		h.fail(w, r, "pets.create", err)
		return
	}
	respond.JSON(w, http.StatusCreated, toPetResponse(p))
}

// update godoc
// @Summary Actualizar mascota propia
// @Description Patch parcial; una foto nueva reemplaza a la anterior. Mascota ajena o inexistente => 404.
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param petID path int true "ID de la mascota"
// @Param payload body petPayload false "Campos a modificar"
// @Success 200 {object} petResponse
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [put]
func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	id, ok := pathID(r, "petID")
	if !ok {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}

	in, photo, done, err := h.readPayload(w, r)
	if err != nil {
		h.fail(w, r, "pets.update", err)
		return
	}
	defer done()

	p, err := h.svc.Update(r.Context(), id, uid, UpdateInput(in), photo)
	if err != nil {
		h.fail(w, r, "pets.update", err)
		return
	}
	respond.JSON(w, http.StatusOK, toPetResponse(p))
}

// delete godoc
// @Summary Borrar mascota propia
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [delete]
func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	id, ok := pathID(r, "petID")
	if !ok {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), id, uid); err != nil {
		h.fail(w, r, "pets.delete", err)
		return
	}
	respond.Message(w, http.StatusOK, "pet deleted")
}

// mine godoc
// @Summary Mis mascotas
// @Tags pets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} petResponse
// @Failure 401 {object} respond.ErrorBody
// @Router /users/me/pets [get]
func (h *handler) mine(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	items, err := h.svc.ListByHolder(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "pets.mine", err)
		return
	}
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	respond.JSON(w, http.StatusOK, out)
}

// readPayload acepta JSON o multipart. done libera los temporales del form.
func (h *handler) readPayload(w http.ResponseWriter, r *http.Request) (petPayload, io.Reader, func(), error) {
	if !form.IsMultipart(r) {
		var in petPayload
		if err := respond.DecodeJSON(r, &in); err != nil {
			return petPayload{}, nil, nil, fmt.Errorf("%w: invalid json", form.ErrBadForm)
		}
		return in, nil, func() {}, nil
	}

	mp, err := form.ParseMultipart(w, r, h.maxPhotoBytes)
	if err != nil {
		return petPayload{}, nil, nil, err
	}
	v := mp.Values
	in := petPayload{
		Name:        form.String(v, "name"),
		Species:     form.String(v, "species"),
		Breed:       form.String(v, "breed"),
		Sex:         form.String(v, "sex"),
		Size:        form.String(v, "size"),
		Color:       form.String(v, "color"),
		Description: form.String(v, "description"),
		Status:      form.String(v, "status"),
	}
	if in.Age, err = form.Int(v, "age"); err == nil {
		if in.Latitude, err = form.Float(v, "latitude"); err == nil {
			in.Longitude, err = form.Float(v, "longitude")
		}
	}
	if err != nil {
		mp.Close()
		return petPayload{}, nil, nil, err
	}
	return in, mp.Photo, mp.Close, nil
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, form.ErrBadForm), photos.IsInvalid(err):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
	default:
		respond.Internal(w, r, h.log, op, err)
	}
}

func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	return id, err == nil && id > 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		HolderID:    p.HolderID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Sex:         p.Sex,
		Size:        p.Size,
		Color:       p.Color,
		Description: p.Description,
		Status:      p.Status,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		Photo:       p.Photo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListingResponse(l Listing) listingResponse {
	return listingResponse{
		petResponse: toPetResponse(l.Pet),
		HolderName:  l.HolderName,
		HolderEmail: l.HolderEmail,
		HolderPhone: l.HolderPhone,
		HolderCity:  l.HolderCity,
		HolderState: l.HolderState,
	}
}
