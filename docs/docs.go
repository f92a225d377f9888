// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/users/register": {"post": {"tags": ["users"], "summary": "Registra un usuario y devuelve un token", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/users/login": {"post": {"tags": ["users"], "summary": "Inicia sesión", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/users/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Perfil del usuario autenticado", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Actualiza el perfil (JSON o multipart)", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Elimina la cuenta", "responses": {"200": {"description": "OK"}}}
        },
        "/users/me/pets": {"get": {"security": [{"BearerAuth": []}], "tags": ["pets"], "summary": "Mascotas publicadas por el usuario", "responses": {"200": {"description": "OK"}}}},
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Lista mascotas con filtros opcionales", "parameters": [
                {"type": "string", "name": "status", "in": "query"},
                {"type": "string", "name": "species", "in": "query"},
                {"type": "string", "name": "city", "in": "query"},
                {"type": "string", "name": "state", "in": "query"}
            ], "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["pets"], "summary": "Publica una mascota", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/pets/{petID}": {
            "get": {"tags": ["pets"], "summary": "Detalle de una mascota", "parameters": [{"type": "integer", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["pets"], "summary": "Actualiza una mascota propia", "parameters": [{"type": "integer", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["pets"], "summary": "Elimina una mascota propia", "parameters": [{"type": "integer", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/adoptions/{id}": {"post": {"security": [{"BearerAuth": []}], "tags": ["adoptions"], "summary": "Solicita adoptar una mascota", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true, "description": "id de la mascota"}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}, "409": {"description": "Conflict"}}}},
        "/adoptions/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["adoptions"], "summary": "Acepta o rechaza una solicitud", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true, "description": "id de la solicitud"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}},
        "/adoptions/mine": {"get": {"security": [{"BearerAuth": []}], "tags": ["adoptions"], "summary": "Solicitudes enviadas", "responses": {"200": {"description": "OK"}}}},
        "/adoptions/received": {"get": {"security": [{"BearerAuth": []}], "tags": ["adoptions"], "summary": "Solicitudes recibidas", "responses": {"200": {"description": "OK"}}}},
        "/messages": {"post": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Envía un mensaje", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
        "/messages/conversations": {"get": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Contrapartes con las que hay mensajes", "responses": {"200": {"description": "OK"}}}},
        "/messages/{userID}": {"get": {"security": [{"BearerAuth": []}], "tags": ["messages"], "summary": "Hilo con otro usuario", "parameters": [{"type": "integer", "name": "userID", "in": "path", "required": true}, {"type": "integer", "name": "after", "in": "query"}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Adoption API",
	Description:      "Publicación de mascotas, solicitudes de adopción y mensajería entre usuarios.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
