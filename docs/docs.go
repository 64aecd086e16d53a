// Package docs registra la definición OpenAPI que sirve /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "DebugUser": {"type": "apiKey", "name": "X-Debug-User-ID", "in": "header"}
    },
    "paths": {
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mis mascotas", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"tags": ["pets"], "summary": "Crear mascota", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/pets/{petID}": {
            "get": {"tags": ["pets"], "summary": "Obtener mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["pets"], "summary": "Eliminar mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/pets/{petID}/status": {
            "get": {"tags": ["care"], "summary": "Estado de la mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/pets/{petID}/activity": {
            "get": {"tags": ["care"], "summary": "Historial de actividad", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}, {"type": "string", "name": "kinds", "in": "query"}, {"type": "string", "name": "from", "in": "query"}, {"type": "string", "name": "to", "in": "query"}, {"type": "string", "name": "q", "in": "query"}, {"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/pets/{petID}/care/feed": {"post": {"tags": ["care"], "summary": "Alimentar mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/pets/{petID}/care/walk": {"post": {"tags": ["care"], "summary": "Pasear mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/care/play": {"post": {"tags": ["care"], "summary": "Jugar con la mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/care/bath": {"post": {"tags": ["care"], "summary": "Bañar mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/care/heal": {"post": {"tags": ["care"], "summary": "Curar enfermedad", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/pets/{petID}/care/medicine": {"post": {"tags": ["care"], "summary": "Curar con medicina", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/pets/{petID}/care/sleep": {"post": {"tags": ["care"], "summary": "Hacer dormir a la mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/pets/{petID}/care/customize": {"post": {"tags": ["care"], "summary": "Customizar mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/pets/{petID}/care/sick": {"post": {"tags": ["care"], "summary": "Enfermar mascota (admin/test)", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/care/decay": {"post": {"tags": ["care"], "summary": "Simular abandono (admin/test)", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}}
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Care Simulator API",
	Description:      "Motor de cuidados de mascotas virtuales: vitales, enfermedades y muerte.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
