// Package docs registra el documento OpenAPI servido en /swagger/doc.json.
// Las rutas se describen con las anotaciones de cada handler; este template
// se regenera con `swag init -g internal/router/router.go -o internal/docs`.
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
        "/health": {"get": {"tags": ["health"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Crear cuenta", "responses": {"201": {"description": "session"}, "400": {"description": "auth error"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión", "responses": {"200": {"description": "session"}, "401": {"description": "auth error"}}}},
        "/medications": {
            "get": {"tags": ["medications"], "summary": "Listar medicamentos", "responses": {"200": {"description": "list"}}},
            "post": {"tags": ["medications"], "summary": "Crear medicamento", "responses": {"201": {"description": "created"}, "400": {"description": "invalid input"}}}
        },
        "/medications/{medicationID}": {"delete": {"tags": ["medications"], "summary": "Borrar medicamento", "responses": {"204": {"description": "deleted"}}}},
        "/medications/{medicationID}/status": {"post": {"tags": ["medications"], "summary": "Cambiar estado", "responses": {"200": {"description": "medication"}, "400": {"description": "invalid status"}}}},
        "/history": {"get": {"tags": ["history"], "summary": "Historial agrupado por fecha", "responses": {"200": {"description": "groups"}}}},
        "/reminders": {
            "get": {"tags": ["reminders"], "summary": "Listar recordatorios", "responses": {"200": {"description": "list"}}},
            "post": {"tags": ["reminders"], "summary": "Crear recordatorio", "responses": {"201": {"description": "created"}}}
        },
        "/reminders/watch": {
            "post": {"tags": ["reminders"], "summary": "Montar scheduler", "responses": {"204": {"description": "watching"}}},
            "delete": {"tags": ["reminders"], "summary": "Desmontar scheduler", "responses": {"204": {"description": "stopped"}}}
        },
        "/reminders/{reminderID}": {"delete": {"tags": ["reminders"], "summary": "Borrar recordatorio", "responses": {"204": {"description": "deleted"}}}},
        "/renewals": {
            "get": {"tags": ["renewals"], "summary": "Listar renovaciones con badge", "responses": {"200": {"description": "list"}}},
            "post": {"tags": ["renewals"], "summary": "Crear renovación", "responses": {"201": {"description": "created"}}}
        },
        "/renewals/{renewalID}": {"delete": {"tags": ["renewals"], "summary": "Borrar renovación", "responses": {"204": {"description": "deleted"}}}},
        "/renewals/{renewalID}/request": {"post": {"tags": ["renewals"], "summary": "Pedir renovación", "responses": {"200": {"description": "item"}, "409": {"description": "bad state"}}}},
        "/renewals/{renewalID}/approve": {"post": {"tags": ["renewals"], "summary": "Aprobar renovación", "responses": {"200": {"description": "item"}, "409": {"description": "bad state"}}}},
        "/renewals/{renewalID}/deny": {"post": {"tags": ["renewals"], "summary": "Rechazar renovación", "responses": {"200": {"description": "item"}, "409": {"description": "bad state"}}}},
        "/profile": {
            "get": {"tags": ["profile"], "summary": "Ver perfil", "responses": {"200": {"description": "profile"}}},
            "put": {"tags": ["profile"], "summary": "Guardar perfil", "responses": {"200": {"description": "profile"}}}
        },
        "/me/settings": {
            "get": {"tags": ["settings"], "summary": "Ver preferencias", "responses": {"200": {"description": "settings"}}},
            "put": {"tags": ["settings"], "summary": "Guardar preferencias", "responses": {"200": {"description": "settings"}}}
        },
        "/me/devices": {
            "get": {"tags": ["devices"], "summary": "Listar dispositivos", "responses": {"200": {"description": "list"}}},
            "post": {"tags": ["devices"], "summary": "Registrar token push", "responses": {"201": {"description": "device"}}}
        },
        "/me/devices/{deviceID}": {"delete": {"tags": ["devices"], "summary": "Quitar dispositivo", "responses": {"204": {"description": "deleted"}}}},
        "/reports/adherence": {"get": {"tags": ["reports"], "summary": "Adherencia", "responses": {"200": {"description": "adherence"}}}},
        "/assistant/messages": {"post": {"tags": ["assistant"], "summary": "Mensaje al asistente", "responses": {"200": {"description": "reply"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "MediTrack API",
	Description:      "Seguimiento de medicación: estados, recordatorios, renovaciones e historial.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
