// Package docs registers the generated OpenAPI document served at
// /swagger/doc.json. Regenerate with `swag init` when routes change.
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
    "paths": {
        "/api/correspondence/v1/correspondences": {
            "post": {
                "summary": "Register a correspondence",
                "tags": ["correspondence"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/api/correspondence/v1/correspondences/{correspondence_id}/minutes": {
            "post": {
                "summary": "Apply a minute action",
                "tags": ["correspondence"],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"},
                    "503": {"description": "Busy"}
                }
            },
            "get": {
                "summary": "List the minute log",
                "tags": ["correspondence"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/delegation/v1/delegations": {
            "post": {
                "summary": "Delegate a correspondence to an assistant",
                "tags": ["delegation"],
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Not Assigned"}
                }
            }
        },
        "/api/notifications/v1/notifications": {
            "get": {
                "summary": "List the caller's notifications",
                "tags": ["notifications"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/notifications/v1/stream": {
            "get": {
                "summary": "Server-sent notification stream",
                "tags": ["notifications"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/profile/v1/users/{user_id}/profile": {
            "get": {
                "summary": "Resolve a user's capability profile",
                "tags": ["profile"],
                "responses": {"200": {"description": "OK"}}
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chancery Correspondence API",
	Description:      "Correspondence routing, minuting, delegation, and notification services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
