// Package respond centraliza la escritura JSON de los handlers.
// Antes writeJSON estaba duplicado por módulo; con cuatro módulos ya conviene compartirlo.
package respond

import (
	"encoding/json"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-adoption/internal/platform/logger"
)

// ErrorBody es la forma de todas las respuestas de error.
type ErrorBody struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error escribe {"message": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Message: msg})
}

// Message escribe {"message": msg} para respuestas exitosas sin payload.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Message: msg})
}

// Internal loguea el error real y responde un 500 genérico.
func Internal(w http.ResponseWriter, r *http.Request, log logger.Logger, op string, err error) {
	if log != nil {
		log.Error("request failed", map[string]any{
			"op":         op,
			"err":        err,
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": chimw.GetReqID(r.Context()),
		})
	}
	Error(w, http.StatusInternalServerError, "internal error")
}

// DecodeJSON decodifica el body rechazando campos desconocidos.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
